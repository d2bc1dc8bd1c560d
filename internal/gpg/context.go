package gpg

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// EngineError is a failure reported by the external engine. The key
// repository treats it as transient: the previous tree stays intact.
type EngineError struct {
	Op     string
	Detail string
	Err    error
}

func (e *EngineError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// Options configures the engine binding.
type Options struct {
	// Bin is the engine executable, "gpg" when empty.
	Bin     string
	Homedir string
	// Outdir receives exported key files; defaults to the homedir.
	Outdir string
	// Outfile is the export file name template; {type}, {query} and
	// {ext} are substituted.
	Outfile string
	Armor   bool
}

// Context runs operations against the engine executable.
type Context struct {
	bin     string
	homedir string
	outdir  string
	outfile string

	// Armor selects ASCII-armored output for exports. Toggled at
	// runtime via ":set armor".
	Armor bool
}

// New probes the engine and returns a ready context. A missing or
// broken engine is fatal for the caller: there is nothing to browse.
func New(opts Options) (*Context, error) {
	bin := opts.Bin
	if bin == "" {
		bin = "gpg"
	}
	c := &Context{
		bin:     bin,
		homedir: opts.Homedir,
		outdir:  opts.Outdir,
		outfile: opts.Outfile,
		Armor:   opts.Armor,
	}
	if c.outfile == "" {
		c.outfile = "{type}_{query}.{ext}"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("engine binary %q not found: %w", bin, err)
	}
	if _, err := c.run("--version"); err != nil {
		return nil, fmt.Errorf("engine unavailable: %w", err)
	}
	return c, nil
}

// ListKeys returns the keys of one collection, optionally constrained
// by a search pattern, in engine-provided order.
func (c *Context) ListKeys(keyType KeyType, pattern string) ([]Key, error) {
	args := []string{
		"--with-colons", "--with-fingerprint", "--with-fingerprint",
		"--list-options", "show-sig-subpackets=20",
	}
	if keyType == Secret {
		args = append(args, "--list-secret-keys")
	} else {
		args = append(args, "--list-sigs")
	}
	if pattern != "" {
		args = append(args, pattern)
	}
	out, err := c.run(args...)
	if err != nil {
		// An empty filter match is not an engine failure.
		if pattern != "" && strings.Contains(err.Error(), "No public key") {
			return nil, nil
		}
		return nil, &EngineError{Op: "list keys", Err: err}
	}
	return parseColonListing(out, keyType), nil
}

// Import adds the keys in the given files to the keyring and returns
// the number of processed keys.
func (c *Context) Import(paths []string) (int, error) {
	args := append([]string{"--batch", "--status-fd", "1", "--import"}, paths...)
	out, err := c.run(args...)
	if err != nil {
		return 0, &EngineError{Op: "import", Err: err}
	}
	return importCount(out), nil
}

// ImportBytes imports key material held in memory, e.g. clipboard
// contents.
func (c *Context) ImportBytes(data []byte) (int, error) {
	cmd := c.command("--batch", "--status-fd", "1", "--import")
	cmd.Stdin = bytes.NewReader(data)
	out, err := runCommand(cmd)
	if err != nil {
		return 0, &EngineError{Op: "import", Err: err}
	}
	return importCount(out), nil
}

// Export writes the selected keys (or the whole collection when no
// patterns are given) to the output directory and returns the path.
func (c *Context) Export(keyType KeyType, patterns []string) (string, error) {
	query := "all"
	if len(patterns) > 0 {
		query = strings.TrimPrefix(patterns[0], "0x")
	}
	ext := "pgp"
	if c.Armor {
		ext = "asc"
	}
	name := strings.NewReplacer(
		"{type}", keyType.String(),
		"{query}", query,
		"{ext}", ext,
	).Replace(c.outfile)
	outdir := c.outdir
	if outdir == "" {
		outdir = filepath.Join(c.homedir, "out")
	}
	if err := os.MkdirAll(outdir, 0o700); err != nil {
		return "", &EngineError{Op: "export", Err: err}
	}
	path := filepath.Join(outdir, name)

	args := []string{"--batch", "--yes", "--output", path}
	if c.Armor {
		args = append(args, "--armor")
	}
	if keyType == Secret {
		args = append(args, "--export-secret-keys")
	} else {
		args = append(args, "--export")
	}
	args = append(args, patterns...)
	if _, err := c.run(args...); err != nil {
		return "", &EngineError{Op: "export", Err: err}
	}
	return path, nil
}

// ExportBytes returns the exported key material instead of writing a
// file; used by the copy-to-clipboard path.
func (c *Context) ExportBytes(keyType KeyType, pattern string) ([]byte, error) {
	args := []string{"--batch", "--armor"}
	if keyType == Secret {
		args = append(args, "--export-secret-keys")
	} else {
		args = append(args, "--export")
	}
	args = append(args, pattern)
	out, err := c.run(args...)
	if err != nil {
		return nil, &EngineError{Op: "export", Err: err}
	}
	return []byte(out), nil
}

// Delete removes a key from the keyring.
func (c *Context) Delete(keyType KeyType, keyID string) error {
	args := []string{"--batch", "--yes"}
	if keyType == Secret {
		args = append(args, "--delete-secret-and-public-key")
	} else {
		args = append(args, "--delete-key")
	}
	args = append(args, keyID)
	if _, err := c.run(args...); err != nil {
		return &EngineError{Op: "delete", Err: err}
	}
	return nil
}

// Sign certifies a key with the default (or given) secret key.
func (c *Context) Sign(keyID, localUser string) error {
	args := []string{"--batch", "--yes"}
	if localUser != "" {
		args = append(args, "--local-user", localUser)
	}
	args = append(args, "--sign-key", keyID)
	if _, err := c.run(args...); err != nil {
		return &EngineError{Op: "sign", Err: err}
	}
	return nil
}

// Receive imports keys from the configured keyserver.
func (c *Context) Receive(keyIDs []string) error {
	args := append([]string{"--batch", "--receive-keys"}, keyIDs...)
	if _, err := c.run(args...); err != nil {
		return &EngineError{Op: "receive", Err: err}
	}
	return nil
}

// Send publishes a key to the configured keyserver.
func (c *Context) Send(keyID string) error {
	if _, err := c.run("--batch", "--send-keys", keyID); err != nil {
		return &EngineError{Op: "send", Err: err}
	}
	return nil
}

// RefreshKeys requests updates for all local keys from the keyserver.
func (c *Context) RefreshKeys() error {
	if _, err := c.run("--batch", "--refresh-keys"); err != nil {
		return &EngineError{Op: "refresh keys", Err: err}
	}
	return nil
}

// EditCommand returns the interactive key-management session for the
// given key. The caller hands the terminal over to it.
func (c *Context) EditCommand(keyID string) *exec.Cmd {
	return c.interactive("--edit-key", keyID)
}

// GenerateCommand returns the interactive key-generation session.
func (c *Context) GenerateCommand() *exec.Cmd {
	return c.interactive("--full-generate-key")
}

func (c *Context) command(args ...string) *exec.Cmd {
	return exec.Command(c.bin, append(c.baseArgs("--no-tty"), args...)...)
}

// interactive builds a session that keeps the tty.
func (c *Context) interactive(args ...string) *exec.Cmd {
	return exec.Command(c.bin, append(c.baseArgs(), args...)...)
}

func (c *Context) baseArgs(extra ...string) []string {
	base := append([]string{}, extra...)
	if c.homedir != "" {
		base = append(base, "--homedir", c.homedir)
	}
	return base
}

func (c *Context) run(args ...string) (string, error) {
	return runCommand(c.command(args...))
}

func runCommand(cmd *exec.Cmd) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", err
		}
		return "", fmt.Errorf("%s", firstLine(msg))
	}
	return stdout.String(), nil
}

// importCount pulls the processed-key count out of the engine's import
// status output.
func importCount(out string) int {
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "[GNUPG:] IMPORT_RES ") {
			fields := strings.Fields(line)
			if len(fields) > 2 {
				var n int
				fmt.Sscanf(fields[2], "%d", &n)
				return n
			}
		}
	}
	return 0
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
