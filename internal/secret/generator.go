package secret

import (
	"fmt"
	"math/rand"
	"strconv"
)

// MaxDigits 是 int64 能完整表示的最大位数
const MaxDigits = 18

// Generate 返回一个恰好 digits 位、首位非零的十进制随机数字符串，在区间内均匀分布。
// 该值只用作短期会话凭证，不要求密码学安全。
func Generate(digits int) (string, error) {
	if digits < 1 || digits > MaxDigits {
		return "", fmt.Errorf("digits must be between 1 and %d, got %d", MaxDigits, digits)
	}

	// digits 为 1 时 lo 为 1，0 不会出现
	lo := pow10(digits - 1)
	hi := pow10(digits) - 1

	n := lo + rand.Int63n(hi-lo+1)
	return strconv.FormatInt(n, 10), nil
}

func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
