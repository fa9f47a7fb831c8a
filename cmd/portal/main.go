package main

import "github.com/nfrund/student-portal/cmd/portal/cmd"

func main() {
	cmd.Execute()
}
