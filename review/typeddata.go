// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package review turns reviewer-signed quality decisions into penalties.
//
// Decisions are EIP-712 typed messages bound to a domain carrying the chain id and the
// verifying address, so a signature is valid for exactly one deployment.
package review

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/sapienio/stakevault/vault"
)

const (
	DomainName    = "StakeVault Quality Review"
	DomainVersion = "1"
)

var (
	domainTypeHash  = vault.Keccak256([]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))
	penaltyTypeHash = vault.Keccak256([]byte("Penalty(bytes32 id,address account,uint256 amount,uint64 expiry)"))
)

// Domain separates signatures of different deployments.
type Domain struct {
	Name              string
	Version           string
	ChainID           uint64
	VerifyingContract vault.Address
}

// NewDomain returns the review domain of chainID.
func NewDomain(chainID uint64, verifyingContract vault.Address) Domain {
	return Domain{
		Name:              DomainName,
		Version:           DomainVersion,
		ChainID:           chainID,
		VerifyingContract: verifyingContract,
	}
}

// Separator returns keccak256(abi.encode(typeHash, name, version, chainId, verifyingContract)).
func (d Domain) Separator() vault.Bytes32 {
	chainID := uint256.NewInt(d.ChainID).Bytes32()
	return vault.Keccak256(
		domainTypeHash.Bytes(),
		vault.Keccak256([]byte(d.Name)).Bytes(),
		vault.Keccak256([]byte(d.Version)).Bytes(),
		chainID[:],
		common.LeftPadBytes(d.VerifyingContract.Bytes(), 32),
	)
}

// Decision is a reviewer verdict penalizing an account.
type Decision struct {
	ID      vault.Bytes32
	Account vault.Address
	Amount  *uint256.Int
	Expiry  uint64
}

// StructHash returns the EIP-712 hash of the Penalty struct.
func (d *Decision) StructHash() vault.Bytes32 {
	var amount [32]byte
	if d.Amount != nil {
		amount = d.Amount.Bytes32()
	}
	expiry := uint256.NewInt(d.Expiry).Bytes32()
	return vault.Keccak256(
		penaltyTypeHash.Bytes(),
		d.ID.Bytes(),
		common.LeftPadBytes(d.Account.Bytes(), 32),
		amount[:],
		expiry[:],
	)
}

// Digest returns keccak256("\x19\x01" || domainSeparator || structHash), the value signed by reviewers.
func (d Domain) Digest(decision *Decision) vault.Bytes32 {
	return vault.Keccak256(
		[]byte{0x19, 0x01},
		d.Separator().Bytes(),
		decision.StructHash().Bytes(),
	)
}

// SignedDecision is a decision with the reviewer signature (r || s || v, 65 bytes).
type SignedDecision struct {
	Decision
	Signature []byte
}
