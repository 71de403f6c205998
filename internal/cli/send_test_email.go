package cli

import (
	"crypto/md5"
	"time"

	"github.com/lumipallolabs/reporter/internal/config"
	"github.com/lumipallolabs/reporter/internal/logging"
	"github.com/lumipallolabs/reporter/internal/mailer"
	"github.com/lumipallolabs/reporter/internal/model"
	"github.com/lumipallolabs/reporter/internal/report"
	"github.com/spf13/cobra"
)

var sendTestEmailCmd = &cobra.Command{
	Use:   "send-test-email [config]",
	Short: "Send a test email",
	Long:  `Send a report with example changes to the configured recipients.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSendTestEmail,
}

func init() {
	rootCmd.AddCommand(sendTestEmailCmd)
}

func runSendTestEmail(cmd *cobra.Command, args []string) error {
	cfgPath := config.DefaultPath()
	if len(args) > 0 {
		cfgPath = config.ExpandPath(args[0])
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	sender, err := mailer.NewSMTP(cfg)
	if err != nil {
		return err
	}
	if err := mailer.New(sender, cfg).Send(cmd.Context(), exampleReport(time.Now())); err != nil {
		return err
	}
	logging.Log.Info().Msg("test email sent")
	return nil
}

// exampleItem describes a file holding contents, modified at t
func exampleItem(path, contents string, t time.Time) model.Item {
	return model.Item{
		Path:    path,
		ModTime: t.UnixNano(),
		Size:    int64(len(contents)),
		Digest:  model.NewDigest(md5.Sum([]byte(contents))),
	}
}

// exampleReport fabricates one folder with each kind of change
func exampleReport(t time.Time) *report.Report {
	changes := model.NewChanges([]model.Change{
		model.NewAddition(exampleItem("Example.txt", "Hello, World.", t)),
		model.NewDeletion(exampleItem("Screenshot.png", "This is an image, honest.", t)),
		model.NewModification(
			exampleItem("Report.csv", "1,2,3", t),
			exampleItem("Report.csv", "1,2,3,4,5,6", t),
		),
	})
	return report.New("test", []report.Folder{
		report.NewFolder("/Users/example/Documents", changes),
	})
}
