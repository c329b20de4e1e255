package main

import "github.com/jmehdipour/phone-engine/cmd"

func main() {
	cmd.Execute()
}
