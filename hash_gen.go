package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// 生成 ADMIN_PASSWORD_HASH 用的小工具: go run hash_gen.go <password>
func main() {
	password := "changeme123"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", string(hashedPassword))
}
