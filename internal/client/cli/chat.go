package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/homecloud-app/homecloud/internal/client/models"
	"github.com/homecloud-app/homecloud/internal/client/services"
)

// Chat prints the chat history from the mirror.
func (a *App) Chat(ctx context.Context) error {
	msgs := a.chat.Messages()
	if len(msgs) == 0 {
		fmt.Println("No messages yet.")
		return nil
	}

	now := time.Now()
	for _, m := range msgs {
		switch m.Type {
		case models.MessageSystem:
			fmt.Printf("-- %s --\n", m.Content)
		case models.MessageVoice:
			marker := ""
			if m.LocalOnly {
				marker = " (not sent)"
			}
			fmt.Printf("[%s] %s: %s%s\n",
				models.FormatTimestamp(m.Timestamp, now), m.Username, voiceLabel(m), marker)
		default:
			fmt.Printf("[%s] %s: %s\n",
				models.FormatTimestamp(m.Timestamp, now), m.Username, m.Content)
		}
	}
	return nil
}

func voiceLabel(m models.ChatMessage) string {
	if m.Content != "" {
		return m.Content
	}
	return fmt.Sprintf("[voice message, %ds]", m.Duration)
}

// Say sends a chat message. With no argument it prompts for the text.
func (a *App) Say(ctx context.Context, text string) error {
	if text == "" {
		var err error
		text, err = getSimpleText(a.reader, "Message", os.Stdout)
		if err != nil {
			return err
		}
	}

	if err := a.chat.SendText(ctx, text); err != nil {
		a.log.Error(ctx, "sending message failed", "error", err)
		fmt.Println("Could not send:", err)
		return err
	}
	return nil
}

// recordingTick is how often the elapsed-seconds display refreshes while
// recording. Tests shrink it to avoid real waits.
var recordingTick = time.Second

// printfFn is a test seam for in-place status output.
var printfFn = fmt.Printf

// Voice records a voice message from the given audio file and sends it.
// The prompt shows elapsed seconds until the user presses Enter. A failed
// upload leaves a local placeholder in the history instead of dropping
// the clip silently.
func (a *App) Voice(ctx context.Context, path string) error {
	ctl, err := services.StartRecording(&services.FileRecorder{Path: path})
	if err != nil {
		fmt.Println("Cannot record:", err)
		return err
	}

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(recordingTick)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				printfFn("\rRecording... %ds (press Enter to send) ", ctl.Elapsed())
			}
		}
	}()

	_, err = getSimpleText(a.reader, "Recording... press Enter to send", os.Stdout)
	close(stop)
	printfFn("\n")
	if err != nil {
		return err
	}

	audio, duration, err := ctl.Stop()
	if err != nil {
		fmt.Println("Recording failed:", err)
		return err
	}

	if err := a.chat.SendVoice(ctx, audio, duration); err != nil {
		a.log.Error(ctx, "sending voice message failed", "error", err)
		fmt.Println("Could not send voice message, kept locally.")
		return err
	}
	fmt.Printf("Voice message sent (%ds).\n", duration)
	return nil
}

// ClearChat wipes the whole chat history after confirmation.
func (a *App) ClearChat(ctx context.Context) error {
	if !GetConfirmation(a.reader, "Clear the whole chat history?", os.Stdout) {
		return nil
	}
	if err := a.chat.ClearAll(ctx); err != nil {
		a.log.Error(ctx, "clearing chat failed", "error", err)
		fmt.Println("Could not clear chat on the server.")
		return err
	}
	fmt.Println("Chat cleared.")
	return nil
}

// Nick changes the chat display name.
func (a *App) Nick(ctx context.Context, name string) error {
	if err := a.chat.SetUsername(ctx, name); err != nil {
		a.log.Error(ctx, "saving display name failed", "error", err)
		return err
	}
	fmt.Println("Chatting as", a.chat.Username())
	return nil
}
