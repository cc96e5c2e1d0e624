// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"math"
	"os"
	"os/user"
	"path/filepath"
	"runtime"

	"gopkg.in/cheggaaa/pb.v1"
)

func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "com.sapienio.stakevault")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "com.sapienio.stakevault")
		default:
			return filepath.Join(home, ".com.sapienio.stakevault")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, fmt.Errorf("flag value %d overflows int", val)
	}
	return int(val), nil
}

// progressBar starts rendering on the first update, once the total is known.
type progressBar struct {
	bar *pb.ProgressBar
}

func newProgressBar() *progressBar {
	return &progressBar{}
}

func (p *progressBar) update(done, total uint64) {
	if p.bar == nil {
		p.bar = pb.New64(int64(total)).
			SetMaxWidth(90).
			Start()
	}
	p.bar.Set64(int64(done))
}

func (p *progressBar) finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}
