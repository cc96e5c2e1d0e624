// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package review

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/sapienio/stakevault/vault"
)

// Signer signs decisions for one domain.
type Signer struct {
	key    *ecdsa.PrivateKey
	addr   vault.Address
	domain Domain
}

func NewSigner(key *ecdsa.PrivateKey, domain Domain) *Signer {
	return &Signer{
		key:    key,
		addr:   vault.Address(crypto.PubkeyToAddress(key.PublicKey)),
		domain: domain,
	}
}

// Address returns the reviewer address of the signing key.
func (s *Signer) Address() vault.Address {
	return s.addr
}

// Sign returns the decision with its signature. v is encoded as 27 or 28.
func (s *Signer) Sign(decision *Decision) (*SignedDecision, error) {
	digest := s.domain.Digest(decision)
	sig, err := crypto.Sign(digest.Bytes(), s.key)
	if err != nil {
		return nil, errors.Wrap(err, "sign decision")
	}
	sig[64] += 27
	return &SignedDecision{Decision: *decision, Signature: sig}, nil
}
