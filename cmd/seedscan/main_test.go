package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/complex-gh/seedscan"
	"github.com/matryer/is"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	abandonAbout = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	emptyAddress = `{
	"chain_stats": {"funded_txo_count": 0, "funded_txo_sum": 0, "spent_txo_count": 0, "spent_txo_sum": 0, "tx_count": 0},
	"mempool_stats": {"funded_txo_count": 0, "funded_txo_sum": 0, "spent_txo_count": 0, "spent_txo_sum": 0, "tx_count": 0}
}`
)

// resetFlags puts every flag of cmd and its subcommands back to its default
// so commands can be executed more than once in a test binary.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI with args, feeding stdin through a pipe when it is not
// empty, and returns what was written to stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	if stdin != "" {
		r, w, err := os.Pipe()
		if err != nil {
			t.Fatal(err)
		}
		go func() {
			_, _ = io.WriteString(w, stdin)
			_ = w.Close()
		}()
		oldIn := os.Stdin
		os.Stdin = r
		defer func() {
			os.Stdin = oldIn
			_ = r.Close()
		}()
	}

	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	oldOut := os.Stdout
	os.Stdout = outW
	done := make(chan string)
	go func() {
		b, _ := io.ReadAll(outR)
		done <- string(b)
	}()

	rootCmd.SetArgs(args)
	err = rootCmd.ExecuteContext(context.Background())

	os.Stdout = oldOut
	_ = outW.Close()
	out := <-done
	_ = outR.Close()
	return out, err
}

// newEsplora serves the chain tip and answers address lookups with handler.
func newEsplora(t *testing.T, lookups *atomic.Int32, handler http.HandlerFunc) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/blocks/tip/height":
			_, _ = io.WriteString(w, "101")
		case strings.HasPrefix(r.URL.Path, "/address/"):
			lookups.Add(1)
			handler(w, r)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func regtestAddress(t *testing.T) string {
	addr, err := seedscan.DeriveBitcoinAddress(abandonAbout, "m/84'/1'/0'/0/0", seedscan.Regtest, "")
	if err != nil {
		t.Fatal(err)
	}
	return addr.Address
}

func TestFormatBTC(t *testing.T) {
	is := is.New(t)

	is.Equal(formatBTC(0), "0.00000000")
	is.Equal(formatBTC(1), "0.00000001")
	is.Equal(formatBTC(52500), "0.00052500")
	is.Equal(formatBTC(2100000000000000), "21000000.00000000")
}

// TestRunScan runs a short regtest scan against a local Esplora stub
func TestRunScan(t *testing.T) {
	is := is.New(t)

	var lookups atomic.Int32
	srv := newEsplora(t, &lookups, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, emptyAddress)
	})

	out, err := execute(t, "", "2", "--network", "regtest", "--endpoint", srv.URL, "--log-level", "error")
	is.NoErr(err)
	is.Equal(lookups.Load(), int32(8))
	is.True(strings.Contains(out, "[iteration 2]"))
	is.True(strings.Contains(out, "8 addresses without balance"))
}

// TestRunScan_Unreachable verifies a failing health check aborts the scan
func TestRunScan_Unreachable(t *testing.T) {
	is := is.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := execute(t, "", "1", "--network", "regtest", "--endpoint", srv.URL, "--log-level", "error")
	is.True(err != nil)
}

func TestRunScan_AddressProbe(t *testing.T) {
	is := is.New(t)

	var lookups atomic.Int32
	srv := newEsplora(t, &lookups, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, emptyAddress)
	})
	address := regtestAddress(t)

	out, err := execute(t, "", "0", address, "--network", "regtest", "--endpoint", srv.URL, "--log-level", "error")
	is.NoErr(err)
	is.Equal(lookups.Load(), int32(1))
	is.True(strings.Contains(out, "[balance of "+address+"]"))
	is.True(strings.Contains(out, "0.00000000 BTC (0 transactions)"))
}

// TestRunScan_AddressProbeFailure verifies a failed startup lookup exits with
// an error before any iteration runs
func TestRunScan_AddressProbeFailure(t *testing.T) {
	is := is.New(t)

	var lookups atomic.Int32
	srv := newEsplora(t, &lookups, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Invalid Bitcoin address", http.StatusBadRequest)
	})

	out, err := execute(t, "", "3", regtestAddress(t), "--network", "regtest", "--endpoint", srv.URL, "--log-level", "error")
	is.True(err != nil)
	is.Equal(lookups.Load(), int32(1))
	is.True(!strings.Contains(out, "[iteration"))

	// an address of another network is rejected before the provider is asked
	_, err = execute(t, "", "1", "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu", "--network", "regtest", "--endpoint", srv.URL, "--log-level", "error")
	is.True(err != nil)
	is.Equal(lookups.Load(), int32(1))
}

func TestGenerateCmd(t *testing.T) {
	is := is.New(t)

	out, err := execute(t, "", "generate", "--words", "24", "--language", "spanish")
	is.NoErr(err)

	m, err := seedscan.ParseMnemonic(strings.TrimSpace(out))
	is.NoErr(err)
	is.Equal(m.WordCount(), seedscan.Words24)
	is.Equal(m.Language(), seedscan.Spanish)

	_, err = execute(t, "", "generate", "--words", "13")
	is.True(err != nil)
}

// TestDeriveCmd reads the mnemonic from stdin and checks the BIP44 vector
func TestDeriveCmd(t *testing.T) {
	is := is.New(t)

	out, err := execute(t, abandonAbout+"\n", "derive", "m/44'/0'/0'/0/0", "--network", "mainnet")
	is.NoErr(err)

	hash, err := seedscan.CalculateScriptHash("1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA", seedscan.Mainnet)
	is.NoErr(err)

	is.True(strings.Contains(out, "[bitcoin mainnet p2pkh at m/44'/0'/0'/0/0]"))
	is.True(strings.Contains(out, "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA (address)"))
	is.True(strings.Contains(out, "03aaeb52dd7494c361049de67cc680e83ebcbbbdbeb13637d92cd845f70308af5e (public key)"))
	is.True(strings.Contains(out, "L4p2b9VAf8k5aUahF1JCJUzZkgNEAqLfq8DDdQiyAprQAKSbu8hf (private key WIF)"))
	is.True(strings.Contains(out, hash+" (script hash)"))
}

func TestDeriveCmd_DefaultPath(t *testing.T) {
	is := is.New(t)

	out, err := execute(t, abandonAbout, "derive")
	is.NoErr(err)
	is.True(strings.Contains(out, "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu (address)"))

	_, err = execute(t, "abandon abandon abandon", "derive")
	is.True(err != nil)
}

func TestRangeCmd(t *testing.T) {
	is := is.New(t)

	m, err := seedscan.ParseMnemonic(abandonAbout)
	is.NoErr(err)
	root, err := seedscan.NewRootKey(m.Seed(""), seedscan.Mainnet)
	is.NoErr(err)
	path, err := seedscan.ParsePath("m/84'/0'/0'")
	is.NoErr(err)
	account, err := root.DerivePath(path)
	is.NoErr(err)
	xpub, err := account.Neuter()
	is.NoErr(err)

	out, err := execute(t, abandonAbout, "range", "m/84'/0'/0'", "--count", "2", "--network", "mainnet")
	is.NoErr(err)
	is.True(strings.HasPrefix(xpub.String(), "xpub"))
	is.True(strings.Contains(out, xpub.String()+" (account xpub)"))
	is.True(strings.Contains(out, "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu (p2wpkh - m/84'/0'/0'/0/0)"))
	is.True(strings.Contains(out, "bc1qnjg0jd8228aq7egyzacy8cys3knf9xvrerkf9g (p2wpkh - m/84'/0'/0'/0/1)"))
	is.True(!strings.Contains(out, "m/84'/0'/0'/0/2"))

	out, err = execute(t, abandonAbout, "range", "m/84'/0'/0'", "--change", "--count", "1", "--network", "mainnet")
	is.NoErr(err)
	is.True(strings.Contains(out, "bc1q8c6fshw2dlwun7ekn9qwf37cu2rn755upcp6el (p2wpkh - m/84'/0'/0'/1/0)"))

	_, err = execute(t, abandonAbout, "range", "m/84'/0'/0'", "--start", "2147483647", "--count", "2")
	is.True(err != nil)
}

func TestScriptHashCmd(t *testing.T) {
	is := is.New(t)

	out, err := execute(t, "", "scripthash", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", "--network", "mainnet")
	is.NoErr(err)
	is.Equal(strings.TrimSpace(out), "8b01df4e368ea28f8dc0423bcf7a4923e3a12d307c875e47a0cfbf90b5c39161")

	_, err = execute(t, "", "scripthash", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", "--network", "testnet")
	is.True(err != nil)
}

// TestGetWidth checks the width falls back to maxWidth off a terminal
func TestGetWidth(t *testing.T) {
	is := is.New(t)

	r, w, err := os.Pipe()
	is.NoErr(err)
	defer r.Close()
	defer w.Close()

	oldOut := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = oldOut }()

	is.Equal(getWidth(), maxWidth)
}
