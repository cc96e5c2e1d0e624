// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package review

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/sapienio/stakevault/cache"
	"github.com/sapienio/stakevault/vault"
)

var errInvalidSignature = errors.New("invalid signature")

// Verifier recovers decision signers. Recovered addresses are cached by digest and signature.
type Verifier struct {
	domain Domain
	cache  *cache.LRU
}

func NewVerifier(domain Domain, cacheSize int) (*Verifier, error) {
	c, err := cache.NewLRU(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Verifier{domain: domain, cache: c}, nil
}

// Domain returns the domain decisions are verified against.
func (v *Verifier) Domain() Domain {
	return v.domain
}

// Recover returns the address that signed the decision.
func (v *Verifier) Recover(d *SignedDecision) (vault.Address, error) {
	if len(d.Signature) != crypto.SignatureLength {
		return vault.Address{}, errInvalidSignature
	}
	digest := v.domain.Digest(&d.Decision)
	key := string(digest.Bytes()) + string(d.Signature)

	signer, err := v.cache.GetOrLoad(key, func(any) (any, error) {
		sig := make([]byte, crypto.SignatureLength)
		copy(sig, d.Signature)
		if sig[64] >= 27 {
			sig[64] -= 27
		}
		if sig[64] > 1 {
			return nil, errInvalidSignature
		}
		pub, err := crypto.SigToPub(digest.Bytes(), sig)
		if err != nil {
			return nil, errors.Wrap(errInvalidSignature, err.Error())
		}
		return vault.Address(crypto.PubkeyToAddress(*pub)), nil
	})
	if err != nil {
		return vault.Address{}, err
	}
	return signer.(vault.Address), nil
}

// Verify reports whether signer produced sig over the decision.
func (v *Verifier) Verify(signer vault.Address, d *SignedDecision) bool {
	recovered, err := v.Recover(d)
	return err == nil && recovered == signer
}
