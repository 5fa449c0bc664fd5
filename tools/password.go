package tools

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordEncrypt 使用 bcrypt 生成带盐哈希，超过 72 字节的密码返回 bcrypt.ErrPasswordTooLong
func PasswordEncrypt(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// PasswordCompare 校验明文密码与哈希是否匹配
func PasswordCompare(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
