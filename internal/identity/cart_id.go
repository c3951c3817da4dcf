package identity

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/luacheia/storefront/internal/logger"
	"github.com/luacheia/storefront/internal/storage"
)

// 匿名购物车标识：每台设备安装后生成一次，之后保持不变。
// 字母表与长度沿用服务端约定，不可更改
const (
	cartIDLength   = 30
	cartIDAlphabet = "ABDEFGHIJKLMNOPQR"
)

// EnsureCartID 返回设备的匿名购物车标识。已存在则原样返回，
// 否则生成并持久化一个新标识（首次调用后恰好一次写入）。
// 存储不可用时必须报错：没有购物车标识后续所有购物车调用都会失败
func EnsureCartID(store *storage.Store) (string, error) {
	existing, ok, err := store.Get(storage.KeyCartID)
	if err != nil {
		return "", err
	}
	if ok && existing != "" {
		return existing, nil
	}

	generated, err := generateCartID()
	if err != nil {
		return "", fmt.Errorf("generate cart id failed: %w", err)
	}
	if err := store.Set(storage.KeyCartID, generated); err != nil {
		return "", err
	}
	logger.Infow("cart_id_generated", "cart_id", generated)
	return generated, nil
}

func generateCartID() (string, error) {
	var builder strings.Builder
	builder.Grow(cartIDLength)
	max := big.NewInt(int64(len(cartIDAlphabet)))
	for i := 0; i < cartIDLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(cartIDAlphabet[n.Int64()])
	}
	return builder.String(), nil
}
