package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muurk/fortictl/internal/config"
	"github.com/muurk/fortictl/internal/device"
	"github.com/muurk/fortictl/internal/discovery"
	"github.com/muurk/fortictl/internal/transport"
	"github.com/muurk/fortictl/internal/ui"
)

// PasswordEnvVar supplies the appliance password non-interactively.
const PasswordEnvVar = "FORTICTL_PASSWORD"

// defaultPath is read when neither the registry record nor --path name any
// configuration paths.
const defaultPath = "full-configuration"

// Connection flags, all optional when the appliance is registered.
var (
	hostFlag       string
	portFlag       int
	usernameFlag   string
	passwordFlag   string
	vdomFlag       string
	globalFlag     bool
	transportFlag  string
	consoleURLFlag string
	timeoutFlag    int
	pathFlags      []string
)

// Command flags
var (
	scanTimeout   int
	waitSerial    string
	candidateFile string
	forceCommit   bool
	dryRun        bool
	assumeYes     bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "Appliance FQDN or IP (overrides the registry)")
	rootCmd.PersistentFlags().IntVar(&portFlag, "port", 0, "Transport port (0 = transport default)")
	rootCmd.PersistentFlags().StringVar(&usernameFlag, "username", "", "Username (default from registry preferences)")
	rootCmd.PersistentFlags().StringVar(&passwordFlag, "password", "", "Password (prefer "+PasswordEnvVar+" or the prompt)")
	rootCmd.PersistentFlags().StringVar(&vdomFlag, "vdom", "", "Scope commands to a named VDOM")
	rootCmd.PersistentFlags().BoolVar(&globalFlag, "global", false, "Scope commands to the global partition")
	rootCmd.PersistentFlags().StringVar(&transportFlag, "transport", "", "Command channel: ssh or websocket")
	rootCmd.PersistentFlags().StringVar(&consoleURLFlag, "console-url", "", "Websocket console endpoint (transport=websocket)")
	rootCmd.PersistentFlags().IntVar(&timeoutFlag, "timeout", 0, "Per-command timeout in seconds")
	rootCmd.PersistentFlags().StringSliceVar(&pathFlags, "path", nil, "Configuration path to manage (repeatable)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(forgetCmd)
}

// scanCmd discovers appliances on the local network.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for FortiGate appliances on the network",
	Long: `Scan for FortiGate appliances using mDNS/DNS-SD discovery.

Appliances with mDNS enabled advertise their management SSH endpoint with
the serial number in the hostname. Discovered units can be registered with
'fortictl register'.`,
	Example: `  # Scan with the default timeout
  fortictl scan

  # Longer scan for slower networks
  fortictl scan --scan-timeout 30

  # Block until one specific unit comes up, e.g. after a reboot
  fortictl scan --wait-for FGT60E4Q16001234`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "scan-timeout", 0, "Scan timeout in seconds (default from preferences)")
	scanCmd.Flags().StringVar(&waitSerial, "wait-for", "", "Return as soon as the appliance with this serial is seen")
}

func runScan(cmd *cobra.Command, args []string) error {
	timeout := scanTimeout
	if timeout <= 0 {
		timeout = 10
		if registry, err := config.LoadRegistry(); err == nil && registry.Preferences != nil && registry.Preferences.ScanTimeoutSeconds > 0 {
			timeout = registry.Preferences.ScanTimeoutSeconds
		}
	}

	if waitSerial != "" {
		fmt.Printf("Waiting for %s (timeout: %ds)...\n\n", waitSerial, timeout)

		scanner := discovery.NewScanner()
		scanner.Timeout = time.Duration(timeout) * time.Second
		appliance, err := scanner.WaitForAppliance(waitSerial)
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", appliance)
		if len(appliance.Metadata) > 0 {
			fmt.Printf("Metadata: %v\n", appliance.Metadata)
		}
		return nil
	}

	fmt.Printf("Scanning for FortiGate appliances (timeout: %ds)...\n\n", timeout)

	appliances, err := discovery.ScanForAppliances(time.Duration(timeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(appliances) == 0 {
		fmt.Println("No appliances found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - mDNS advertisement must be enabled on the management interface")
		fmt.Println("  - The appliance must be on the same network segment")
		fmt.Println("  - Try increasing --scan-timeout for slower networks")
		fmt.Println("  - Use --host to connect directly when discovery is unavailable")
		return nil
	}

	fmt.Printf("Found %d appliance(s):\n\n", len(appliances))

	for i, appliance := range appliances {
		fmt.Printf("%d. %s\n", i+1, appliance.Hostname)
		fmt.Printf("   Serial: %s\n", appliance.Serial)
		fmt.Printf("   IP:     %s:%d\n", appliance.IP, appliance.Port)
		if len(appliance.Metadata) > 0 {
			fmt.Printf("   Metadata: %v\n", appliance.Metadata)
		}
		fmt.Println()
	}

	fmt.Println("Use 'fortictl register <name> --host <ip>' to add an appliance to the registry")

	return nil
}

// showCmd prints the normalized running configuration.
var showCmd = &cobra.Command{
	Use:   "show [appliance]",
	Short: "Show the running configuration",
	Long: `Read the running configuration from the appliance and print it in
normalized form. Only the managed configuration paths are read; pass --path
to read something else.`,
	Example: `  # Registered appliance
  fortictl show lab-fw

  # Ad hoc connection, one section
  fortictl show --host 10.0.0.1 --path "system interface"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	appliance, label, err := resolveAppliance(args)
	if err != nil {
		return err
	}

	session, err := openSession(appliance, label)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := loadLivePaths(session, appliance); err != nil {
		return err
	}

	fmt.Print(session.Store().Get(device.Live).Render())
	return nil
}

// diffCmd previews the commands a commit would push.
var diffCmd = &cobra.Command{
	Use:   "diff [appliance]",
	Short: "Show the commands that would be pushed",
	Long: `Compute the command diff from the running configuration to the
candidate file: the exact script 'fortictl commit' would push.`,
	Example: `  fortictl diff lab-fw --candidate lab-fw.conf`,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&candidateFile, "candidate", "", "Candidate configuration file (required)")
	_ = diffCmd.MarkFlagRequired("candidate")
}

func runDiff(cmd *cobra.Command, args []string) error {
	appliance, label, err := resolveAppliance(args)
	if err != nil {
		return err
	}

	session, err := openSession(appliance, label)
	if err != nil {
		return err
	}
	defer session.Close()

	diff, err := candidateDiff(session, appliance)
	if err != nil {
		return err
	}

	if diff == "" {
		fmt.Println("No changes. The candidate matches the running configuration.")
		return nil
	}

	ui.NewPrinter(nil).PrintDiff(diff)
	return nil
}

// commitCmd pushes the candidate to the appliance as an atomic batch.
var commitCmd = &cobra.Command{
	Use:   "commit [appliance]",
	Short: "Apply a candidate configuration",
	Long: `Apply the candidate configuration to the appliance.

The command diff from running to candidate is pushed as one batch. If any
command is rejected the appliance is rolled back to its pre-commit state
and the rejected commands are reported. With --force the rollback is
skipped and whatever applied stays applied.`,
	Example: `  # Review, confirm, apply
  fortictl commit lab-fw --candidate lab-fw.conf

  # Unattended apply
  fortictl commit lab-fw --candidate lab-fw.conf --yes

  # Keep partial state on failure
  fortictl commit lab-fw --candidate lab-fw.conf --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCommit,
}

func init() {
	commitCmd.Flags().StringVar(&candidateFile, "candidate", "", "Candidate configuration file (required)")
	commitCmd.Flags().BoolVar(&forceCommit, "force", false, "Keep partial state instead of rolling back on failure")
	commitCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the change set without applying it")
	commitCmd.Flags().BoolVar(&assumeYes, "yes", false, "Skip the confirmation prompt")
	_ = commitCmd.MarkFlagRequired("candidate")
}

// Commit phases shown in the progress display.
var commitSteps = []string{
	"Read running configuration",
	"Compute change set",
	"Push batch and verify",
}

func runCommit(cmd *cobra.Command, args []string) error {
	appliance, label, err := resolveAppliance(args)
	if err != nil {
		return err
	}

	session, err := openSession(appliance, label)
	if err != nil {
		return err
	}
	defer session.Close()

	printer := ui.NewPrinter(nil)
	printer.PrintHeader("Commit", "fortictl commit "+label, map[string]string{
		"Appliance": label,
		"Host":      appliance.Host,
		"Scope":     session.Scope().String(),
		"Candidate": candidateFile,
	})

	progress := ui.NewProgress("Committing candidate configuration", len(commitSteps))
	progress.SetStepNames(commitSteps)

	progress.StartStep(1, "")
	if err := loadLivePaths(session, appliance); err != nil {
		return err
	}
	progress.CompleteStep(1, "")

	progress.StartStep(2, "")
	diff, err := loadCandidateDiff(session)
	if err != nil {
		return err
	}
	progress.CompleteStep(2, fmt.Sprintf("%d command(s)", commandCount(diff)))

	if diff == "" {
		progress.UpdateStep(3, ui.StepSkipped, "no changes")
		if err := ui.RenderOnce(progress.Render()); err != nil {
			return err
		}
		printer.PrintSuccess("Nothing to commit", map[string]string{
			"Appliance": label,
			"Changes":   "none",
		})
		return nil
	}

	printer.PrintDiff(diff)

	if dryRun {
		progress.UpdateStep(3, ui.StepSkipped, "dry run")
		if err := ui.RenderOnce(progress.Render()); err != nil {
			return err
		}
		fmt.Println("Dry run: no changes were applied.")
		return nil
	}

	if !assumeYes {
		confirmed := false
		if forceCommit {
			confirmed = ui.ForcedCommitConfirmation(appliance.Host)
		} else {
			confirmed = ui.CommitConfirmation(appliance.Host, commandCount(diff))
		}
		if !confirmed {
			return nil
		}
	}

	progress.StartStep(3, "")
	outcome, err := session.Commit("", forceCommit)
	if err != nil {
		if commitErr, ok := device.AsCommitError(err); ok {
			progress.FailStep(3, "rolled back")
			_ = ui.RenderOnce(progress.Render())
			printer.PrintError("Commit rejected, appliance rolled back", commitErr, []string{
				"The running configuration was restored from the pre-commit snapshot",
				"Fix the rejected commands in the candidate and commit again",
				"Use --force to keep partially applied changes instead of rolling back",
			})
			return fmt.Errorf("%d command(s) rejected", len(commitErr.Failed))
		}
		progress.FailStep(3, "")
		_ = ui.RenderOnce(progress.Render())
		printer.PrintError("Commit failed", err, []string{
			"Check connectivity to " + appliance.Host,
			"Inspect the appliance's own config state before retrying",
		})
		return err
	}

	if outcome.OK() {
		progress.CompleteStep(3, "")
		if err := ui.RenderOnce(progress.Render()); err != nil {
			return err
		}
		printer.PrintSuccess("Commit complete", map[string]string{
			"Appliance": label,
			"Commands":  fmt.Sprintf("%d", commandCount(diff)),
		})
		return nil
	}

	// Forced commit with failures: partial state kept on purpose.
	progress.CompleteStep(3, fmt.Sprintf("%d rejected", len(outcome.Failed)))
	if err := ui.RenderOnce(progress.Render()); err != nil {
		return err
	}
	for _, entry := range outcome.Failed {
		fmt.Printf("  (%d) %s\n", entry.StatusCode, entry.Command)
	}
	printer.PrintWarning("Forced commit kept partial state", map[string]string{
		"Appliance": label,
		"Rejected":  fmt.Sprintf("%d command(s)", len(outcome.Failed)),
	})
	return nil
}

// execCmd runs a raw CLI command.
var execCmd = &cobra.Command{
	Use:   "exec [appliance] -- <command>",
	Short: "Run a raw CLI command on the appliance",
	Long: `Run a raw command over the appliance's command channel and print
the response. The command runs inside the session's scope (global or VDOM)
only when it enters one itself; exec does not wrap it.`,
	Example: `  fortictl exec lab-fw -- get system status
  fortictl exec --host 10.0.0.1 -- diagnose sys session stat`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func runExec(cmd *cobra.Command, args []string) error {
	// First arg is the appliance name unless --host pins one; everything
	// else is the command.
	var nameArgs []string
	commandArgs := args
	if hostFlag == "" && len(args) > 1 {
		nameArgs = args[:1]
		commandArgs = args[1:]
	}

	appliance, label, err := resolveAppliance(nameArgs)
	if err != nil {
		return err
	}

	session, err := openSession(appliance, label)
	if err != nil {
		return err
	}
	defer session.Close()

	lines, err := session.Execute(strings.Join(commandArgs, " "))
	if err != nil {
		return err
	}

	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}

// registerCmd stores an appliance in the local registry.
var registerCmd = &cobra.Command{
	Use:   "register <name>",
	Short: "Add or update an appliance in the registry",
	Long: `Store connection details for an appliance under a name, so later
commands can refer to it without connection flags. Passwords are never
stored.`,
	Example: `  fortictl register lab-fw --host 10.0.0.1 --vdom customer-a --path "system interface"`,
	Args:    cobra.ExactArgs(1),
	RunE:    runRegister,
}

func runRegister(cmd *cobra.Command, args []string) error {
	if hostFlag == "" {
		return fmt.Errorf("--host is required when registering an appliance")
	}
	if vdomFlag != "" && globalFlag {
		return fmt.Errorf("--vdom and --global are mutually exclusive")
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	registry.Set(args[0], &config.Appliance{
		Host:           hostFlag,
		Port:           portFlag,
		Username:       usernameFlag,
		VDOM:           vdomFlag,
		Global:         globalFlag,
		Transport:      transportFlag,
		ConsoleURL:     consoleURLFlag,
		TimeoutSeconds: timeoutFlag,
		Paths:          pathFlags,
	})

	if err := registry.Save(); err != nil {
		return err
	}

	fmt.Printf("Registered %s (%s)\n", args[0], hostFlag)
	return nil
}

// forgetCmd removes an appliance from the registry.
var forgetCmd = &cobra.Command{
	Use:   "forget <name>",
	Short: "Remove an appliance from the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		registry.Remove(args[0])
		if err := registry.Save(); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

// resolveAppliance merges the registry record named by args[0] (when given)
// with the connection flags. Flags win over the registry.
func resolveAppliance(args []string) (*config.Appliance, string, error) {
	registry, err := config.LoadRegistry()
	if err != nil {
		return nil, "", err
	}

	appliance := &config.Appliance{}
	label := hostFlag

	if len(args) > 0 {
		record := registry.Get(args[0])
		if record == nil {
			return nil, "", fmt.Errorf("unknown appliance %q; register it or use --host", args[0])
		}
		copied := *record
		appliance = &copied
		label = args[0]
	}

	if hostFlag != "" {
		appliance.Host = hostFlag
	}
	if portFlag != 0 {
		appliance.Port = portFlag
	}
	if usernameFlag != "" {
		appliance.Username = usernameFlag
	}
	if vdomFlag != "" {
		appliance.VDOM = vdomFlag
		appliance.Global = false
	}
	if globalFlag {
		appliance.Global = true
		appliance.VDOM = ""
	}
	if transportFlag != "" {
		appliance.Transport = transportFlag
	}
	if consoleURLFlag != "" {
		appliance.ConsoleURL = consoleURLFlag
	}
	if timeoutFlag != 0 {
		appliance.TimeoutSeconds = timeoutFlag
	}
	if len(pathFlags) > 0 {
		appliance.Paths = pathFlags
	}

	if appliance.Host == "" {
		return nil, "", fmt.Errorf("no appliance host: name a registered appliance or pass --host")
	}
	if appliance.VDOM != "" && appliance.Global {
		return nil, "", fmt.Errorf("--vdom and --global are mutually exclusive")
	}
	if appliance.Username == "" && registry.Preferences != nil {
		appliance.Username = registry.Preferences.DefaultUsername
	}
	if label == "" {
		label = appliance.Host
	}

	return appliance, label, nil
}

// openSession dials the appliance's command channel and wraps it in a
// session scoped per the appliance record.
func openSession(appliance *config.Appliance, label string) (*device.Session, error) {
	timeout := time.Duration(appliance.TimeoutSeconds) * time.Second

	var channel transport.Channel
	switch appliance.Transport {
	case "", "ssh":
		password, err := resolvePassword(appliance)
		if err != nil {
			return nil, err
		}
		channel, err = transport.DialSSH(transport.SSHOptions{
			Host:     appliance.Host,
			Port:     appliance.Port,
			Username: appliance.Username,
			Password: password,
			Timeout:  timeout,
		})
		if err != nil {
			return nil, err
		}
	case "websocket":
		if appliance.ConsoleURL == "" {
			return nil, fmt.Errorf("transport websocket needs --console-url")
		}
		var err error
		channel, err = transport.DialWebsocket(transport.WSOptions{
			URL:     appliance.ConsoleURL,
			Timeout: timeout,
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown transport %q (use ssh or websocket)", appliance.Transport)
	}

	var scope device.Scope
	switch {
	case appliance.VDOM != "":
		scope = device.VDOMScope(appliance.VDOM)
	case appliance.Global:
		scope = device.GlobalScope()
	}

	return device.NewSession(channel, device.SessionOptions{
		Host:  label,
		Scope: scope,
	}), nil
}

// resolvePassword takes the password from the flag, the environment, or an
// interactive prompt, in that order.
func resolvePassword(appliance *config.Appliance) (string, error) {
	if passwordFlag != "" {
		return passwordFlag, nil
	}
	if password := os.Getenv(PasswordEnvVar); password != "" {
		return password, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no password: set %s or pass --password", PasswordEnvVar)
	}

	fmt.Fprintf(os.Stderr, "Password for %s@%s: ", appliance.Username, appliance.Host)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}

// loadLivePaths reads every managed path into the live state.
func loadLivePaths(session *device.Session, appliance *config.Appliance) error {
	paths := appliance.Paths
	if len(paths) == 0 {
		paths = []string{defaultPath}
	}
	for _, path := range paths {
		if err := session.Load(path, device.LoadLive, ""); err != nil {
			return err
		}
	}
	return nil
}

// candidateDiff loads the live state from the appliance and the candidate
// state from the --candidate file, then returns the command diff.
func candidateDiff(session *device.Session, appliance *config.Appliance) (string, error) {
	if err := loadLivePaths(session, appliance); err != nil {
		return "", err
	}
	return loadCandidateDiff(session)
}

// loadCandidateDiff parses the --candidate file into the candidate state and
// returns the command diff from the already-loaded live state.
func loadCandidateDiff(session *device.Session) (string, error) {
	data, err := os.ReadFile(candidateFile)
	if err != nil {
		return "", fmt.Errorf("reading candidate: %w", err)
	}
	if err := session.Load(candidateFile, device.LoadCandidate, string(data)); err != nil {
		return "", err
	}

	live := session.Store().Get(device.Live)
	candidate := session.Store().Get(device.Candidate)
	return live.Diff(candidate), nil
}

// commandCount counts the commands in a diff script.
func commandCount(diff string) int {
	if diff == "" {
		return 0
	}
	return len(strings.Split(strings.TrimRight(diff, "\n"), "\n"))
}
