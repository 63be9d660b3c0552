package main

import "github.com/kamal-hamza/pixelshare/cmd"

func main() {
	cmd.Execute()
}
