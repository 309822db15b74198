// Command ldapwiredump decodes a stream of LDAPMessage PDUs and prints one
// line per message. It exists outside the codec packages and only calls
// ldap.Decode and ldap.Consumed, so it never grows its own parsing logic.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/go-ldapwire/ldapwire/ldap"
)

func main() {
	os.Exit(run(os.Args))
}

// run executes the CLI and returns an exit code, separated from main for
// testability.
func run(args []string) int {
	if len(args) < 2 {
		printUsage(os.Stdout)
		return 1
	}
	switch args[1] {
	case "dump":
		return dumpCmd(args[2:])
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[1])
		fmt.Fprintln(os.Stderr, "Run 'ldapwiredump help' for usage.")
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ldapwiredump dump [file]")
	fmt.Fprintln(w, "  Decodes a raw LDAPMessage stream from file (or stdin) and prints one")
	fmt.Fprintln(w, "  summary line per message.")
}

func dumpCmd(args []string) int {
	var r io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "ldapwiredump:", err)
			return 1
		}
		defer f.Close()
		r = f
	}
	return dumpStream(os.Stdout, r)
}

// dumpStream accumulates bytes from r into buf until Decode reports
// NeedMoreBytes is false, prints the result, and advances past the
// consumed bytes — the same read-accumulate-consume loop a connection
// handler runs per TCP segment, just driven by a file instead of a socket.
func dumpStream(w io.Writer, r io.Reader) int {
	br := bufio.NewReader(r)
	var buf []byte
	chunk := make([]byte, 4096)
	for {
		outcome := ldap.Decode(buf)
		switch {
		case outcome.Message != nil:
			printMessage(w, outcome.Message)
			n, err := ldap.Consumed(buf)
			if err != nil {
				fmt.Fprintln(os.Stderr, "ldapwiredump: internal inconsistency after decode:", err)
				return 1
			}
			buf = buf[n:]
			continue
		case outcome.Protocol != nil:
			fmt.Fprintln(os.Stderr, "ldapwiredump: protocol error:", outcome.Protocol)
			return 1
		case outcome.Response != nil:
			fmt.Fprintln(os.Stderr, "ldapwiredump: response-carrying error:", outcome.Response)
			return 1
		}
		n, err := br.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			continue
		}
		if err == io.EOF {
			if len(buf) > 0 {
				fmt.Fprintln(os.Stderr, "ldapwiredump: trailing bytes after last complete message")
				return 1
			}
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "ldapwiredump:", err)
			return 1
		}
	}
}

func printMessage(w io.Writer, msg *ldap.Message) {
	fmt.Fprintf(w, "message %d: %T", msg.ID, msg.Op)
	if len(msg.Controls) > 0 {
		fmt.Fprintf(w, " (%d controls)", len(msg.Controls))
	}
	fmt.Fprintln(w)
}
