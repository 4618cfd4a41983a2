package main

import "toyblog/service"

func main() {
	service.Execute()
}
