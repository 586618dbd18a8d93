package main

import "github.com/lukman83/vitrine/cmd"

func main() {
	cmd.Execute()
}
