package send

import (
	"fmt"
	cmdUtil "github.com/ValentinKolb/mllp/cmd/util"
	"github.com/ValentinKolb/mllp/lib/hl7"
	"github.com/ValentinKolb/mllp/mllp/client"
	"github.com/ValentinKolb/mllp/mllp/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"strings"
	"time"
)

var (
	sendCmdConfig = &common.ClientConfig{}
	SendCmd       = &cobra.Command{
		Use:   "send [file|dir ...]",
		Short: "Send HL7 messages and print the acknowledgments",
		Long: `Send HL7 messages to an MLLP receiver. Arguments are message files or directories; a directory contributes its *.hl7 files sorted by name. Without arguments a sample MDM^T02 message is sent.

Messages are sent one after another over a single connection. A message is retried after connection errors only, never after a timeout, since the receiver may already have accepted it.`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	cmdUtil.SetupClientFlags(SendCmd)

	key := "delay"
	SendCmd.Flags().Duration(key, 0, cmdUtil.WrapString("Pause between two messages"))
}

// processConfig reads the configuration from the command line flags and environment variables
func processConfig(cmd *cobra.Command, _ []string) error {
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}
	sendCmdConfig = cmdUtil.GetClientConfig()
	return common.InitLoggers(sendCmdConfig.LogLevel)
}

func run(_ *cobra.Command, args []string) error {
	// Load the messages
	var messages []client.Message
	if len(args) == 0 {
		fmt.Println("No message files given, sending a sample MDM^T02 message")
		messages = []client.Message{{Name: "sample", Payload: hl7.NewSampleMDM(time.Now())}}
	} else {
		var err error
		if messages, err = client.LoadMessages(args); err != nil {
			return err
		}
		if len(messages) == 0 {
			return fmt.Errorf("no messages found in %s", strings.Join(args, ", "))
		}
	}

	t, err := cmdUtil.GetClientTransport()
	if err != nil {
		return err
	}

	sender, err := client.NewSender(*sendCmdConfig, t)
	if err != nil {
		return err
	}
	defer sender.Close()

	delay := viper.GetDuration("delay")
	failed := 0

	for i, msg := range messages {
		if i > 0 && delay > 0 {
			time.Sleep(delay)
		}

		fmt.Printf("==> %s\n", msg.Name)
		ack, err := sender.Send(msg.Payload)
		if err != nil {
			failed++
			fmt.Printf("failed: %v\n\n", err)
			continue
		}
		fmt.Printf("%s\n\n", client.Printable(ack))
	}

	sender.WriteSummary(os.Stdout)

	if failed > 0 {
		return fmt.Errorf("%d of %d messages failed", failed, len(messages))
	}
	return nil
}
