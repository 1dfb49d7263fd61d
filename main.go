package main

import "github.com/nikogura/cvanon/cmd"

func main() {
	cmd.Execute()
}
