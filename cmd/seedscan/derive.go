package main

import (
	"fmt"

	"github.com/complex-gh/seedscan"
	"github.com/spf13/cobra"
)

var (
	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Print a new random mnemonic",
		Example: `  seedscan generate
  seedscan generate --words 24 --language japanese`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			m, err := seedscan.GenerateMnemonic(cfg.WordCount, cfg.Language)
			if err != nil {
				return err
			}
			fmt.Println(m.String())
			return nil
		},
	}

	deriveCmd = &cobra.Command{
		Use:   "derive [path]",
		Short: "Derive the address and private key at a path",
		Long: `Derive the address and private key at a path.

The mnemonic is read from stdin when it is piped, otherwise it is
prompted for without echo. The script type follows the purpose of the
path: 44 is P2PKH, 49 is P2SH-P2WPKH, 84 is P2WPKH and 86 is P2TR.
Without a path m/84'/<coin>'/0'/0/0 is used.`,
		Example: `  seedscan derive
  seedscan derive "m/86'/0'/0'/0/0"
  echo "abandon abandon ... about" | seedscan derive "m/44'/1'/0'/0/0" --network testnet`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			var path string
			if len(args) > 0 {
				path = args[0]
			}

			phrase, err := readMnemonic()
			if err != nil {
				return err
			}
			pass, err := passphrase()
			if err != nil {
				return err
			}

			addr, err := seedscan.DeriveBitcoinAddress(phrase, path, cfg.Network, pass)
			if err != nil {
				return err
			}
			wif, err := seedscan.DerivePrivateKey(phrase, addr.Path, cfg.Network, pass)
			if err != nil {
				return err
			}
			hash, err := seedscan.CalculateScriptHash(addr.Address, cfg.Network)
			if err != nil {
				return err
			}

			fmt.Printf("[bitcoin %s %s at %s]\n", cfg.Network, addr.ScriptType, addr.Path)
			fmt.Println()
			fmt.Printf("%s (address)\n", addr.Address)
			fmt.Printf("%s (public key)\n", addr.PublicKey)
			fmt.Printf("%s (private key WIF)\n", wif)
			fmt.Printf("%s (script hash)\n", hash)
			return nil
		},
	}

	rangeCmd = &cobra.Command{
		Use:   "range <account-path>",
		Short: "Derive a range of addresses of an account",
		Long: `Derive a range of addresses of an account.

The account path is the hardened part of the path, such as m/84'/0'/0'.
Addresses are derived from its receive branch, or its change branch
with --change. The mnemonic is read like the derive command does.`,
		Example: `  seedscan range "m/84'/0'/0'"
  seedscan range "m/86'/0'/0'" --change --start 20 --count 5`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			phrase, err := readMnemonic()
			if err != nil {
				return err
			}
			pass, err := passphrase()
			if err != nil {
				return err
			}

			xpub, err := accountXpub(phrase, args[0], cfg.Network, pass)
			if err != nil {
				return err
			}
			addrs, err := seedscan.DeriveBitcoinAddresses(phrase, args[0], cfg.Network, pass, isChange, rangeStart, rangeCount)
			if err != nil {
				return err
			}

			fmt.Printf("[bitcoin %s account %s]\n", cfg.Network, args[0])
			fmt.Println()
			fmt.Printf("%s (account xpub)\n", xpub)
			fmt.Println()
			for _, a := range addrs {
				fmt.Printf("%s (%s - %s)\n", a.Address, a.ScriptType, a.Path)
			}
			return nil
		},
	}

	scriptHashCmd = &cobra.Command{
		Use:          "scripthash <address>",
		Short:        "Print the Electrum script hash of an address",
		Example:      `  seedscan scripthash bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			hash, err := seedscan.CalculateScriptHash(args[0], cfg.Network)
			if err != nil {
				return err
			}
			fmt.Println(hash)
			return nil
		},
	}
)

// accountXpub returns the neutered extended key of the account node.
func accountXpub(phrase, accountPath string, net seedscan.Network, pass string) (string, error) {
	m, err := seedscan.ParseMnemonic(phrase)
	if err != nil {
		return "", err
	}
	path, err := seedscan.ParsePath(accountPath)
	if err != nil {
		return "", err
	}
	root, err := seedscan.NewRootKey(m.Seed(pass), net)
	if err != nil {
		return "", err
	}
	account, err := root.DerivePath(path)
	if err != nil {
		return "", err
	}
	pub, err := account.Neuter()
	if err != nil {
		return "", err
	}
	return pub.String(), nil
}
