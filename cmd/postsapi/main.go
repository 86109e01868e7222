package main

import "posts-api/cmd/postsapi/commands"

func main() {
	commands.Execute()
}
