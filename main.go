package main

import "github.com/codemend/codemend/cmd"

func main() {
	cmd.Execute()
}
