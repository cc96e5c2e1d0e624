// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package review

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapienio/stakevault/test/datagen"
	"github.com/sapienio/stakevault/vault"
)

func newDecision() *Decision {
	return &Decision{
		ID:      datagen.RandomHash(),
		Account: datagen.RandAddress(),
		Amount:  vault.Tokens(100),
		Expiry:  2_000_000_000,
	}
}

func TestDomain_Separator(t *testing.T) {
	a := NewDomain(1, vault.ReviewAddress)
	b := NewDomain(2, vault.ReviewAddress)
	c := NewDomain(1, vault.StakerAddress)

	assert.Equal(t, a.Separator(), NewDomain(1, vault.ReviewAddress).Separator())
	assert.NotEqual(t, a.Separator(), b.Separator())
	assert.NotEqual(t, a.Separator(), c.Separator())
	assert.Equal(t, DomainName, a.Name)
	assert.Equal(t, DomainVersion, a.Version)
}

func TestDecision_StructHash(t *testing.T) {
	d := newDecision()
	h := d.StructHash()

	changed := *d
	changed.Amount = new(uint256.Int).AddUint64(d.Amount, 1)
	assert.NotEqual(t, h, changed.StructHash())

	changed = *d
	changed.Expiry++
	assert.NotEqual(t, h, changed.StructHash())

	changed = *d
	changed.Amount = nil
	assert.NotEqual(t, h, changed.StructHash())
}

func TestSignAndVerify(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	domain := NewDomain(1, vault.ReviewAddress)

	signer := NewSigner(key, domain)
	verifier, err := NewVerifier(domain, 16)
	require.NoError(t, err)

	signed, err := signer.Sign(newDecision())
	require.NoError(t, err)
	require.Len(t, signed.Signature, crypto.SignatureLength)
	assert.Contains(t, []byte{27, 28}, signed.Signature[64])

	recovered, err := verifier.Recover(signed)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), recovered)
	assert.True(t, verifier.Verify(signer.Address(), signed))
	assert.False(t, verifier.Verify(datagen.RandAddress(), signed))

	hit, miss := verifier.cache.Stats()
	assert.Equal(t, int64(2), hit)
	assert.Equal(t, int64(1), miss)

	// tampered payload recovers a different address or fails
	tampered := *signed
	tampered.Amount = vault.Tokens(1)
	assert.False(t, verifier.Verify(signer.Address(), &tampered))

	// other domain
	other, err := NewVerifier(NewDomain(2, vault.ReviewAddress), 16)
	require.NoError(t, err)
	assert.False(t, other.Verify(signer.Address(), signed))

	short := *signed
	short.Signature = signed.Signature[:64]
	_, err = verifier.Recover(&short)
	assert.ErrorIs(t, err, errInvalidSignature)

	badV := *signed
	badV.Signature = append([]byte(nil), signed.Signature...)
	badV.Signature[64] = 31
	_, err = verifier.Recover(&badV)
	assert.ErrorIs(t, err, errInvalidSignature)
}
