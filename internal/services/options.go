package services

import (
	"time"

	"github.com/baharkarakas/debtme-backend/internal/config"
)

// Options are the policy switches the ledger services read.
type Options struct {
	OTPRequired         bool
	RequireApprovedLink bool
	OTPIssuer           string
	Now                 func() time.Time
}

func OptionsFrom(c config.Config) Options {
	return Options{
		OTPRequired:         c.OTPRequired,
		RequireApprovedLink: c.RequireApprovedLink,
		OTPIssuer:           c.OTPIssuer,
		Now:                 time.Now,
	}
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}
