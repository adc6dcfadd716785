// cygnet-cli manages identities and signed events for the Cygnet wire
// protocol: key generation from seed phrases, identifier encoding,
// event signing/verification, and signing delegation.
package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/cygnet-social/cygnet/internal/log"
	"github.com/cygnet-social/cygnet/pkg/crypto"
	"github.com/cygnet-social/cygnet/pkg/delegation"
	"github.com/cygnet-social/cygnet/pkg/event"
	"github.com/cygnet-social/cygnet/pkg/keys"
	"github.com/cygnet-social/cygnet/pkg/types"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	// Parse global flags that appear before the subcommand.
	logLevel := "info"
	jsonLogs := false

	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--log-level" && len(args) > 1:
			logLevel = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--log-level="):
			logLevel = args[0][len("--log-level="):]
			args = args[1:]
		case args[0] == "--json-logs":
			jsonLogs = true
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	log.Init(logLevel, jsonLogs)

	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "keygen":
		cmdKeygen(cmdArgs)
	case "derive":
		cmdDerive(cmdArgs)
	case "inspect":
		cmdInspect(cmdArgs)
	case "sign-text":
		cmdSignText(cmdArgs)
	case "verify-text":
		cmdVerifyText(cmdArgs)
	case "event":
		cmdEvent(cmdArgs)
	case "delegation":
		cmdDelegation(cmdArgs)
	case "encrypt-key":
		cmdEncryptKey(cmdArgs)
	case "decrypt-key":
		cmdDecryptKey(cmdArgs)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: cygnet-cli [global flags] <command> [args]

Global flags:
  --log-level <lvl>   debug, info, warn, error (default: info)
  --json-logs         structured JSON log output

Commands:
  keygen                          Generate a new seed phrase and key pair
  derive [--account N]            Derive keys from a seed phrase (read from stdin)
  inspect <entity>                Decode an npub/nsec/note identifier
  sign-text <message>             Sign free text with a prompted secret key
  verify-text <msg> <sig> <pub>   Verify a free-text signature
  event sign                      Sign an event JSON read from stdin
  event verify                    Verify an event JSON read from stdin
  delegation create <npub> [conditions]
                                  Delegate signing authority to a key
  delegation verify [--at <ts>]   Verify a delegation token from stdin
  encrypt-key                     Password-encrypt a prompted secret key
  decrypt-key <ncryptsec>         Decrypt an encrypted secret key

Delegation conditions:
  --kinds 1,7        Restrict to the listed event kinds
  --since <ts>       Window start (unix seconds)
  --until <ts>       Window end (unix seconds)
`)
}

func fatal(err error) {
	log.CLI.Error().Err(err).Msg("command failed")
	os.Exit(1)
}

// printKeyPair writes the public identity to stdout and the secret
// material only when asked for.
func printKeyPair(kp *keys.KeyPair, showSecret bool) {
	fmt.Printf("pubkey: %s\n", kp.PublicKeyHex())
	fmt.Printf("npub:   %s\n", kp.Npub())
	if showSecret {
		fmt.Printf("nsec:   %s\n", kp.Nsec())
	}
	log.Keys.Debug().Str("fingerprint", crypto.Fingerprint(kp.XOnlyPublicKey())).Msg("derived key pair")
}

func cmdKeygen(args []string) {
	_ = args
	kp, err := keys.Generate()
	if err != nil {
		fatal(err)
	}
	mnemonic, _ := kp.Mnemonic()
	fmt.Printf("mnemonic: %s\n", mnemonic)
	printKeyPair(kp, true)
}

func cmdDerive(args []string) {
	account := -1
	for len(args) > 0 {
		switch {
		case args[0] == "--account" && len(args) > 1:
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 0 {
				fatal(fmt.Errorf("invalid account index %q", args[1]))
			}
			account = n
			args = args[2:]
		default:
			fatal(fmt.Errorf("unknown argument %q", args[0]))
		}
	}

	mnemonic, err := readLine("seed phrase: ")
	if err != nil {
		fatal(err)
	}
	mnemonic = strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")

	var kp *keys.KeyPair
	if account >= 0 {
		kp, err = keys.DeriveAccount(mnemonic, uint32(account))
	} else {
		kp, err = keys.FromMnemonic(mnemonic)
	}
	if err != nil {
		fatal(err)
	}
	printKeyPair(kp, true)
}

func cmdInspect(args []string) {
	if len(args) != 1 {
		fatal(fmt.Errorf("usage: inspect <entity>"))
	}
	hrp, payload, err := types.DecodeEntity(args[0])
	if err != nil {
		fatal(err)
	}
	fmt.Printf("prefix:  %s\n", hrp)
	fmt.Printf("payload: %s\n", hex.EncodeToString(payload))
}

func cmdSignText(args []string) {
	if len(args) != 1 {
		fatal(fmt.Errorf("usage: sign-text <message>"))
	}
	kp := promptKeyPair()
	defer kp.Zero()

	sig, err := event.SignText(args[0], kp.PrivateKey())
	if err != nil {
		fatal(err)
	}
	fmt.Printf("pubkey: %s\n", kp.PublicKeyHex())
	fmt.Printf("sig:    %s\n", sig)
}

func cmdVerifyText(args []string) {
	if len(args) != 3 {
		fatal(fmt.Errorf("usage: verify-text <message> <sig> <pubkey>"))
	}
	if err := event.VerifyText(args[0], args[1], args[2]); err != nil {
		fmt.Println("invalid:", err)
		os.Exit(1)
	}
	fmt.Println("valid")
}

func cmdEvent(args []string) {
	if len(args) < 1 {
		fatal(fmt.Errorf("usage: event sign|verify"))
	}
	switch args[0] {
	case "sign":
		var e event.Event
		if err := json.NewDecoder(os.Stdin).Decode(&e); err != nil {
			fatal(fmt.Errorf("read event: %w", err))
		}
		kp := promptKeyPair()
		defer kp.Zero()
		if err := e.Sign(kp.PrivateKey()); err != nil {
			fatal(err)
		}
		out, err := e.Marshal()
		if err != nil {
			fatal(err)
		}
		fmt.Println(string(out))
	case "verify":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatal(fmt.Errorf("read event: %w", err))
		}
		e, err := event.Parse(data)
		if err != nil {
			fmt.Println("invalid:", err)
			os.Exit(1)
		}
		if err := e.Verify(); err != nil {
			fmt.Println("invalid:", err)
			os.Exit(1)
		}
		fmt.Println("valid")
	default:
		fatal(fmt.Errorf("usage: event sign|verify"))
	}
}

func cmdDelegation(args []string) {
	if len(args) < 1 {
		fatal(fmt.Errorf("usage: delegation create|verify"))
	}
	switch args[0] {
	case "create":
		cmdDelegationCreate(args[1:])
	case "verify":
		cmdDelegationVerify(args[1:])
	default:
		fatal(fmt.Errorf("usage: delegation create|verify"))
	}
}

func cmdDelegationCreate(args []string) {
	if len(args) < 1 {
		fatal(fmt.Errorf("usage: delegation create <npub|pubkey-hex> [--kinds a,b] [--since ts] [--until ts]"))
	}
	delegatee := args[0]
	args = args[1:]

	// Accept either an npub or raw hex for the delegatee.
	if pub, err := types.DecodePublicKey(delegatee); err == nil {
		delegatee = hex.EncodeToString(pub)
	}

	var cond delegation.Conditions
	for len(args) > 0 {
		switch {
		case args[0] == "--kinds" && len(args) > 1:
			for _, part := range strings.Split(args[1], ",") {
				k, err := strconv.Atoi(part)
				if err != nil || k < 0 {
					fatal(fmt.Errorf("invalid kind %q", part))
				}
				cond.Kinds = append(cond.Kinds, k)
			}
			args = args[2:]
		case args[0] == "--since" && len(args) > 1:
			ts, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				fatal(fmt.Errorf("invalid timestamp %q", args[1]))
			}
			cond.Since = &ts
			args = args[2:]
		case args[0] == "--until" && len(args) > 1:
			ts, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				fatal(fmt.Errorf("invalid timestamp %q", args[1]))
			}
			cond.Until = &ts
			args = args[2:]
		default:
			fatal(fmt.Errorf("unknown argument %q", args[0]))
		}
	}

	kp := promptKeyPair()
	defer kp.Zero()

	token, err := delegation.Create(delegatee, cond, kp.PrivateKey())
	if err != nil {
		fatal(err)
	}
	out, err := token.Marshal()
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(out))
}

func cmdDelegationVerify(args []string) {
	var at *int64
	for len(args) > 0 {
		switch {
		case args[0] == "--at" && len(args) > 1:
			ts, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				fatal(fmt.Errorf("invalid timestamp %q", args[1]))
			}
			at = &ts
			args = args[2:]
		default:
			fatal(fmt.Errorf("unknown argument %q", args[0]))
		}
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fatal(fmt.Errorf("read token: %w", err))
	}
	token, err := delegation.Parse(data)
	if err != nil {
		fmt.Println("invalid:", err)
		os.Exit(1)
	}
	if err := token.Verify(at); err != nil {
		fmt.Println("invalid:", err)
		os.Exit(1)
	}
	fmt.Println("valid")
}

func cmdEncryptKey(args []string) {
	_ = args
	kp := promptKeyPair()
	defer kp.Zero()

	password, err := readPassword("encryption password: ")
	if err != nil {
		fatal(err)
	}
	defer crypto.Zeroize(password)

	encrypted, err := keys.EncryptSecretKey(kp.PrivateKey(), password, keys.DefaultEncryptionParams())
	if err != nil {
		fatal(err)
	}
	fmt.Println(encrypted)
}

func cmdDecryptKey(args []string) {
	if len(args) != 1 {
		fatal(fmt.Errorf("usage: decrypt-key <ncryptsec>"))
	}
	password, err := readPassword("password: ")
	if err != nil {
		fatal(err)
	}
	defer crypto.Zeroize(password)

	kp, err := keys.DecryptSecretKey(args[0], password)
	if err != nil {
		fatal(err)
	}
	defer kp.Zero()
	printKeyPair(kp, true)
}

// promptKeyPair reads an nsec or hex secret key without echo and builds
// the key pair.
func promptKeyPair() *keys.KeyPair {
	secret, err := readPassword("secret key (nsec or hex): ")
	if err != nil {
		fatal(err)
	}
	defer crypto.Zeroize(secret)

	s := strings.TrimSpace(string(secret))
	var kp *keys.KeyPair
	if strings.HasPrefix(s, types.SecretKeyHRP+"1") {
		kp, err = keys.FromSecretKeyString(s)
	} else {
		kp, err = keys.FromPrivateKeyHex(s)
	}
	if err != nil {
		fatal(err)
	}
	return kp
}

// readPassword reads a line from the terminal without echo, falling back
// to plain stdin when not attached to a terminal (e.g. piped input).
func readPassword(prompt string) ([]byte, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		return b, err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

// readLine reads a visible line from stdin.
func readLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
