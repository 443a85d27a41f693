package main

import "github.com/silent2803/NurtiDuo/cmd"

func main() {
	cmd.Run()
}
