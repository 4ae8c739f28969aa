// cbc.go - AES-CBC decryption with a derived key
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package dhke

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// DecryptCBC decrypts ct under AES-CBC with the given key (16, 24 or 32
// bytes) and IV. The plaintext is returned as is, padding included; see
// UnpadPKCS7.
func DecryptCBC(key, iv, ct []byte) ([]byte, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("dhke: %w", err)
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("dhke: IV is %d bytes, want %d", len(iv), aes.BlockSize)
	}
	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("dhke: ciphertext length %d is not a positive multiple of %d", len(ct), aes.BlockSize)
	}

	pt := make([]byte, len(ct))
	cipher.NewCBCDecrypter(c, iv).CryptBlocks(pt, ct)
	return pt, nil
}

// UnpadPKCS7 strips PKCS#7 padding from a decrypted block sequence.
func UnpadPKCS7(pt []byte) ([]byte, error) {
	n := len(pt)
	if n == 0 || n%aes.BlockSize != 0 {
		return nil, fmt.Errorf("dhke: padded length %d is not a positive multiple of %d", n, aes.BlockSize)
	}

	pad := int(pt[n-1])
	if pad == 0 || pad > aes.BlockSize {
		return nil, fmt.Errorf("dhke: invalid padding byte %#x", pad)
	}
	for _, b := range pt[n-pad:] {
		if int(b) != pad {
			return nil, fmt.Errorf("dhke: invalid padding")
		}
	}
	return pt[:n-pad], nil
}
