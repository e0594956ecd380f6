// Package auth はパスワード認証、トークン発行・検証のドメインロジックを提供する。
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes はbcryptアルゴリズムが処理する入力の上限バイト数。
// ハッシュ時と検証時で同一の切り詰めを行わないと、上限を超える
// パスワードが検証不能になるため、両経路でtruncatePasswordを必ず通すこと。
const maxPasswordBytes = 72

// HashPassword はパスワードをソルト付きbcryptハッシュに変換する。
// 入力は72バイトに切り詰めてからハッシュする。
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword はパスワードとbcryptハッシュを照合する。
// ハッシュ時と同一の切り詰めを適用する。不正な形式のハッシュを含め、
// 照合に失敗した場合はエラーではなくfalseを返す。
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncatePassword(password)) == nil
}

// truncatePassword はパスワードのUTF-8バイト列を72バイトに切り詰める。
func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
