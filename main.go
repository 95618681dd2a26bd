package main

import "github.com/qrave1/proctorlink/cmd"

func main() {
	cmd.Execute()
}
