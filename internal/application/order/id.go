package order

import (
	"crypto/rand"
	"math/big"
)

const (
	idPrefix   = "ABS-"
	idLength   = 6
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateID produce un identificador ABS-XXXXXX con caracteres alfanuméricos en mayúscula.
func GenerateID() (string, error) {
	buf := make([]byte, idLength)
	limit := big.NewInt(int64(len(idAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		buf[i] = idAlphabet[n.Int64()]
	}
	return idPrefix + string(buf), nil
}
