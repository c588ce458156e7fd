package main

import "github.com/blogem/caseledger/cli"

func main() {
	cli.Execute()
}
