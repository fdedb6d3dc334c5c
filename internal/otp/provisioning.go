package otp

import (
	"encoding/base32"
	"encoding/base64"
	"net/url"
	"strconv"

	"github.com/skip2/go-qrcode"
)

// ProvisioningURI renders the otpauth:// URI authenticator apps understand.
func ProvisioningURI(issuer, account, hexSecret string) (string, error) {
	key, err := DecodeSecret(hexSecret)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("secret", base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(key))
	q.Set("issuer", issuer)
	q.Set("algorithm", "SHA1")
	q.Set("digits", strconv.Itoa(Digits))
	q.Set("period", strconv.Itoa(StepSeconds))

	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + issuer + ":" + account,
		RawQuery: q.Encode(),
	}
	return u.String(), nil
}

// ProvisioningQR returns the URI as a base64 encoded PNG.
func ProvisioningQR(uri string) (string, error) {
	png, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
