package main

import "nathanbeddoewebdev/zoneup/cmd"

func main() {
	cmd.Execute()
}
