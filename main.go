package main

import "golang-w5500d/cmd"

func main() {
	cmd.Execute()
}
