// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-tty"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/sapienio/stakevault/api/penalties"
	"github.com/sapienio/stakevault/api/utils"
	"github.com/sapienio/stakevault/genesis"
	"github.com/sapienio/stakevault/review"
	"github.com/sapienio/stakevault/vault"
)

type decisionArgs struct {
	ID      string
	Account string
	Amount  string
	Expiry  uint64
	TTL     uint64
}

// keyPrompt returns the terminal prompt, or nil when stdin is not interactive.
func keyPrompt() func() (string, error) {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		return readKeyFromTTY
	}
	return nil
}

func decisionArgsFrom(ctx *cli.Context) decisionArgs {
	return decisionArgs{
		ID:      ctx.String(decisionIDFlag.Name),
		Account: ctx.String(accountFlag.Name),
		Amount:  ctx.String(amountFlag.Name),
		Expiry:  ctx.Uint64(expiryFlag.Name),
		TTL:     ctx.Uint64(ttlFlag.Name),
	}
}

// loadReviewerKey reads the key from hexKey or keyFile. If neither is set, prompt
// is asked for it, when not nil.
func loadReviewerKey(hexKey, keyFile string, prompt func() (string, error)) (*ecdsa.PrivateKey, error) {
	switch {
	case hexKey != "" && keyFile != "":
		return nil, errors.New("only one of --key and --key-file can be set")
	case hexKey != "":
		return parseHexKey(hexKey)
	case keyFile != "":
		key, err := crypto.LoadECDSA(keyFile)
		if err != nil {
			return nil, errors.Wrapf(err, "load reviewer key [%v]", keyFile)
		}
		return key, nil
	case prompt != nil:
		input, err := prompt()
		if err != nil {
			return nil, errors.Wrap(err, "read reviewer key")
		}
		return parseHexKey(input)
	default:
		return nil, errors.New("reviewer key required, use --key or --key-file")
	}
}

func parseHexKey(s string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "parse reviewer key")
	}
	return key, nil
}

// readKeyFromTTY prompts on the controlling terminal without echo.
func readKeyFromTTY() (string, error) {
	t, err := tty.Open()
	if err != nil {
		return "", err
	}
	defer t.Close()

	fmt.Fprint(t.Output(), "Enter reviewer private key: ")
	return t.ReadPasswordNoEcho()
}

func parseDecision(args decisionArgs, now uint64) (*review.Decision, error) {
	var (
		d   review.Decision
		err error
	)
	if args.ID == "" {
		d.ID = vault.Blake2b(uuid.NewRandom())
	} else if d.ID, err = vault.ParseBytes32(args.ID); err != nil {
		return nil, errors.Wrap(err, "id")
	}

	if args.Account == "" {
		return nil, errors.New("account: missing")
	}
	if d.Account, err = vault.ParseAddress(args.Account); err != nil {
		return nil, errors.Wrap(err, "account")
	}

	amount, ok := math.ParseBig256(args.Amount)
	if !ok {
		return nil, errors.Errorf("amount: invalid value %q", args.Amount)
	}
	if d.Amount, err = utils.ParseAmount((*math.HexOrDecimal256)(amount)); err != nil {
		return nil, err
	}
	if d.Amount.IsZero() {
		return nil, errors.New("amount: must be positive")
	}

	switch {
	case args.Expiry > 0:
		d.Expiry = args.Expiry
	case args.TTL > 0:
		d.Expiry = now + args.TTL
	default:
		return nil, errors.New("expiry: set --expiry or a positive --ttl")
	}
	return &d, nil
}

func signDecision(key *ecdsa.PrivateKey, gene *genesis.Genesis, d *review.Decision) (*review.SignedDecision, error) {
	signer := review.NewSigner(key, review.NewDomain(gene.ChainID(), vault.ReviewAddress))
	return signer.Sign(d)
}

// encodeDecision renders a signed decision in the body format of POST /penalties.
func encodeDecision(d *review.SignedDecision) ([]byte, error) {
	return json.MarshalIndent([]*penalties.Decision{{
		ID:        d.ID,
		Account:   d.Account,
		Amount:    utils.Amount(d.Amount),
		Expiry:    d.Expiry,
		Signature: d.Signature,
	}}, "", "  ")
}
