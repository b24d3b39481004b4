package main

import (
	"github.com/cigarcraft/cigar-commerce/cmd"
)

func main() {
	cmd.Execute()
}
