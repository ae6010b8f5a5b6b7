package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt-hashes a tenant or landlord password. The cost
// comes from BCRYPT_COST in config; values outside bcrypt's valid range
// (including the zero value from an unconfigured test Config) fall back
// to the library default so a bad setting can never weaken hashes below
// the floor.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// Any malformed hash simply fails the comparison; login treats that the
// same as a wrong password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
