package challan

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/farellandr/echallan/internal/models"
)

const (
	PersonPrefix = "KDP"
	ShopPrefix   = "KDS"
)

// 10 digit numbers without a leading zero: [1e9, 1e10).
var (
	idFloor = big.NewInt(1_000_000_000)
	idSpan  = big.NewInt(9_000_000_000)
)

// IDGenerator returns a fresh challan id for the subject type.
type IDGenerator func(models.SubjectType) (string, error)

func Prefix(t models.SubjectType) string {
	if t == models.SubjectShop {
		return ShopPrefix
	}
	return PersonPrefix
}

// GenerateID draws 10 random digits from crypto/rand. Collisions are left to
// the unique index on challanId.
func GenerateID(t models.SubjectType) (string, error) {
	n, err := rand.Int(rand.Reader, idSpan)
	if err != nil {
		return "", fmt.Errorf("failed to draw challan id: %w", err)
	}
	return fmt.Sprintf("%s%d", Prefix(t), n.Add(n, idFloor)), nil
}
