package main

import "github.com/bcoles/jira-scan/cmd"

func main() {
	cmd.Execute()
}
