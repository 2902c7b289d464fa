package main

import "github.com/hawkstone-global/hawkstone_backend/cmd"

func main() {
	cmd.Execute()
}
