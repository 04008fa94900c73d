// derive_range derives the first receive addresses of every BIP44/49/84/86
// account of a BIP39 mnemonic for testing.
//
// Usage:
//
//	go run ./scripts/derive_range "your 12 word seed phrase here"
//
// Or with stdin:
//
//	echo "your 12 word seed phrase" | go run ./scripts/derive_range
//
// Note: Addresses are derived for mainnet from account 0 without a BIP39
// passphrase. Use `seedscan range` for other networks, accounts or ranges.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/complex-gh/seedscan"
)

const count = 5

func main() {
	var mnemonic string

	if len(os.Args) > 1 {
		mnemonic = strings.Join(os.Args[1:], " ")
	} else {
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			mnemonic = strings.TrimSpace(scanner.Text())
		}
	}

	if mnemonic == "" {
		fmt.Fprintln(os.Stderr, "Usage: derive_range \"12 word seed phrase\"")
		fmt.Fprintln(os.Stderr, "   or: echo \"seed phrase\" | derive_range")
		os.Exit(1)
	}

	for _, st := range seedscan.ScriptTypes {
		purpose, err := st.Purpose()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		account := fmt.Sprintf("m/%d'/0'/0'", purpose)

		addrs, err := seedscan.DeriveBitcoinAddresses(mnemonic, account, seedscan.Mainnet, "", false, 0, count)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("[%s %s]\n", st, account)
		for _, a := range addrs {
			fmt.Printf("%s (%s)\n", a.Address, a.Path)
		}
		fmt.Println()
	}
}
