package utils

import (
	"crypto/rand"
	"math/big"
)

// base36Alphabet 安全码字符集，大写字母加数字
const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// SecureCodeLength 新一代公开标识符的长度
const SecureCodeLength = 8

// RandomBase36 生成指定长度的大写 base36 随机串，使用 crypto/rand。
func RandomBase36(length int) (string, error) {
	buf := make([]byte, length)
	max := big.NewInt(int64(len(base36Alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = base36Alphabet[n.Int64()]
	}
	return string(buf), nil
}

// RandomDigits 生成指定长度的随机数字串，首位不为零。
// 用于二维码可读标签的随机后缀（例如 QR483920）。
func RandomDigits(length int) (string, error) {
	buf := make([]byte, length)
	for i := range buf {
		max := big.NewInt(10)
		if i == 0 {
			max = big.NewInt(9)
		}
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		d := n.Int64()
		if i == 0 {
			d++ // 1-9
		}
		buf[i] = byte('0' + d)
	}
	return string(buf), nil
}
