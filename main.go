package main

import "github.com/Another0Noob/tachibk/cmd"

func main() {
	cmd.Execute()
}
