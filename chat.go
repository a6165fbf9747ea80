package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"llmbox/internal/chat"
	"llmbox/internal/llm"
	"llmbox/internal/llm/registry"
	"llmbox/internal/transcript"
)

const issueURL = "https://github.com/victorycrest/llmbox/issues/new?labels=bug&title=%5BERROR%5D"

// Archive persists finished turns and recalls earlier ones.
type Archive interface {
	Save(ctx context.Context, e transcript.Entry) (string, error)
	Search(ctx context.Context, embedding []float32, k int) ([]transcript.Hit, error)
}

// ChatBot runs an interactive chat session against one LLM client.
type ChatBot struct {
	client       llm.Client
	params       llm.Params
	systemPrompt string
	archive      Archive
	embedder     *transcript.Embedder
	recallLimit  int
	typingDelay  time.Duration
	logger       *zap.Logger
	now          func() time.Time

	in  io.Reader
	out io.Writer

	sessionID string
	conv      *chat.Conversation
	stamps    []time.Time // one per conversation message
}

// ChatOption configures a ChatBot.
type ChatOption func(*ChatBot)

// WithArchive enables transcript archiving and the recall command.
func WithArchive(a Archive) ChatOption {
	return func(cb *ChatBot) { cb.archive = a }
}

// WithParams sets the generation parameters sent with every turn.
func WithParams(p llm.Params) ChatOption {
	return func(cb *ChatBot) { cb.params = p }
}

// WithSystemPrompt seeds every conversation with a system message.
func WithSystemPrompt(s string) ChatOption {
	return func(cb *ChatBot) { cb.systemPrompt = s }
}

// WithRecallLimit caps the number of recall results.
func WithRecallLimit(n int) ChatOption {
	return func(cb *ChatBot) { cb.recallLimit = n }
}

// WithTypingDelay sets the per-character delay of printed replies.
func WithTypingDelay(d time.Duration) ChatOption {
	return func(cb *ChatBot) { cb.typingDelay = d }
}

// WithChatLogger sets the logger.
func WithChatLogger(l *zap.Logger) ChatOption {
	return func(cb *ChatBot) { cb.logger = l }
}

// NewChatBot creates a new ChatBot instance
func NewChatBot(client llm.Client, in io.Reader, out io.Writer, opts ...ChatOption) *ChatBot {
	cb := &ChatBot{
		client:      client,
		embedder:    transcript.NewEmbedder(),
		recallLimit: 3,
		logger:      zap.NewNop(),
		now:         time.Now,
		in:          in,
		out:         out,
	}
	for _, o := range opts {
		o(cb)
	}
	cb.reset()
	return cb
}

// reset starts a new session with an empty conversation.
func (cb *ChatBot) reset() {
	cb.sessionID = uuid.New().String()
	cb.conv = chat.NewConversation()
	cb.stamps = nil
	if cb.systemPrompt != "" {
		cb.append(chat.SystemMessage(cb.systemPrompt))
	}
}

func (cb *ChatBot) append(m chat.Message) {
	cb.conv.Append(m)
	cb.stamps = append(cb.stamps, cb.now())
}

// Conversation returns the current conversation.
func (cb *ChatBot) Conversation() *chat.Conversation {
	return cb.conv
}

// Ask sends question as the next user turn and returns the reply. The user
// message stays in the conversation even when generation fails.
func (cb *ChatBot) Ask(ctx context.Context, question string) (string, error) {
	cb.append(chat.UserMessage(question))
	cb.archiveMessage(ctx, cb.conv.Len()-1, chat.UserMessage(question))

	reply, err := cb.client.Generate(ctx, cb.conv, llm.WithParams(cb.params))
	if err != nil {
		return "", err
	}

	msg := chat.AssistantMessage(reply)
	cb.append(msg)
	cb.archiveMessage(ctx, cb.conv.Len()-1, msg)
	return reply, nil
}

// archiveMessage saves m when an archive is configured. Failures are logged
// and do not interrupt the chat.
func (cb *ChatBot) archiveMessage(ctx context.Context, index int, m chat.Message) {
	if cb.archive == nil {
		return
	}
	_, err := cb.archive.Save(ctx, transcript.Entry{
		SessionID: cb.sessionID,
		Index:     index,
		Role:      m.Role,
		Text:      m.Text,
		Provider:  string(cb.client.Provider()),
		Model:     cb.client.Model(),
		Embedding: cb.embedder.Embed(m.Text),
	})
	if err != nil {
		cb.logger.Warn("archive message", zap.String("session", cb.sessionID), zap.Error(err))
	}
}

// Recall returns archived messages similar to query.
func (cb *ChatBot) Recall(ctx context.Context, query string) ([]transcript.Hit, error) {
	if cb.archive == nil {
		return nil, errors.New("transcript archive is not configured; set DATABASE_URL")
	}
	return cb.archive.Search(ctx, cb.embedder.Embed(query), cb.recallLimit)
}

// GetTimeString returns the formatted time
func GetTimeString(t time.Time) string {
	return t.Format("15:04:05")
}

// printWithCodeHighlight prints text with fenced and inline code colored,
// pausing typingDelay between characters.
func (cb *ChatBot) printWithCodeHighlight(text string) {
	white := color.New(color.FgWhite)
	codeBlockColor := color.New(color.FgBlue)
	inlineCodeColor := color.New(color.FgYellow)

	inCodeBlock := false
	inInlineCode := false
	pause := func() {
		if cb.typingDelay > 0 {
			time.Sleep(cb.typingDelay)
		}
	}

	for i := 0; i < len(text); {
		if strings.HasPrefix(text[i:], "```") {
			codeBlockColor.Fprint(cb.out, "```")
			pause()
			i += 3
			inCodeBlock = !inCodeBlock
			if inCodeBlock {
				// language identifier
				for i < len(text) && text[i] != '\n' {
					codeBlockColor.Fprint(cb.out, string(text[i]))
					i++
				}
			}
			continue
		}

		if text[i] == '`' && !inCodeBlock {
			inlineCodeColor.Fprint(cb.out, "`")
			pause()
			inInlineCode = !inInlineCode
			i++
			continue
		}

		// Print whole runes so multi-byte characters stay intact.
		end := i + 1
		for end < len(text) && text[end]&0xC0 == 0x80 {
			end++
		}
		switch {
		case inCodeBlock:
			codeBlockColor.Fprint(cb.out, text[i:end])
		case inInlineCode:
			inlineCodeColor.Fprint(cb.out, text[i:end])
		default:
			white.Fprint(cb.out, text[i:end])
		}
		pause()
		i = end
	}
	fmt.Fprintln(cb.out)
}

func (cb *ChatBot) printBanner() {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintln(cb.out, "╔════════════════════════╗")
	cyan.Fprintln(cb.out, "║         llmbox         ║")
	cyan.Fprintln(cb.out, "╚════════════════════════╝")
}

func (cb *ChatBot) printHistory() {
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)
	magenta := color.New(color.FgMagenta, color.Bold)
	gray := color.New(color.FgHiBlack)

	if cb.conv.Len() == 0 {
		yellow.Fprint(cb.out, "\nNo messages yet. Say hello!\n\n")
		return
	}

	yellow.Fprintf(cb.out, "\n📜 Conversation History (%d messages):\n\n", cb.conv.Len())
	i := 0
	for m := range cb.conv.History() {
		ts := GetTimeString(cb.stamps[i])
		switch m.Role {
		case chat.User:
			green.Fprintf(cb.out, "You (%s): %s\n", ts, m.Text)
		case chat.Assistant:
			magenta.Fprintf(cb.out, "Bot (%s): %s\n", ts, m.Text)
		default:
			gray.Fprintf(cb.out, "%s (%s): %s\n", m.Role, ts, m.Text)
		}
		i++
	}
	fmt.Fprintln(cb.out)
}

func (cb *ChatBot) printModels() {
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)

	yellow.Fprint(cb.out, "\nKnown models:\n")
	for _, m := range registry.Models() {
		line := fmt.Sprintf("  %-11s %s", m.Provider, m.Model)
		if m.Provider == cb.client.Provider() && m.Model == cb.client.Model() {
			green.Fprintln(cb.out, line+"  (current)")
			continue
		}
		fmt.Fprintln(cb.out, line)
	}
	fmt.Fprintln(cb.out)
}

func (cb *ChatBot) printRecall(ctx context.Context, query string) {
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	if query == "" {
		yellow.Fprint(cb.out, "\nUsage: recall <query>\n\n")
		return
	}
	hits, err := cb.Recall(ctx, query)
	if err != nil {
		red.Fprintf(cb.out, "\n❌ Recall failed: %v\n\n", err)
		return
	}
	if len(hits) == 0 {
		yellow.Fprint(cb.out, "\nNothing similar in the archive.\n\n")
		return
	}
	yellow.Fprintf(cb.out, "\n🔎 %d similar messages:\n\n", len(hits))
	for _, h := range hits {
		fmt.Fprintf(cb.out, "  [%.2f] %s: %s\n", h.Similarity, h.Role, h.Text)
	}
	fmt.Fprintln(cb.out)
}

func (cb *ChatBot) printError(err error) {
	red := color.New(color.FgRed)
	gray := color.New(color.FgHiBlack)

	red.Fprint(cb.out, "\n❌ Something went wrong while generating a reply.\n")
	gray.Fprintf(cb.out, "Details: %v\n", err)
	gray.Fprintf(cb.out, "Type 'reset' to start over, or report the issue at %s\n\n", issueURL)
}

// Run reads lines from the input until exit, end of input or cancellation.
func (cb *ChatBot) Run(ctx context.Context) error {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	magenta := color.New(color.FgMagenta, color.Bold)

	cb.printBanner()
	yellow.Fprintf(cb.out, "\n💬 Chatting with %s (%s).\n", cb.client.Model(), cb.client.Provider())
	yellow.Fprint(cb.out, "Commands: 'history', 'clear', 'reset', 'models', 'recall <query>', 'exit'\n\n")

	scanner := bufio.NewScanner(cb.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		green.Fprintf(cb.out, "You (%s): ", GetTimeString(cb.now()))
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		command, arg, _ := strings.Cut(input, " ")
		command = strings.ToLower(command)
		if arg != "" && command != "recall" {
			command = ""
		}
		switch command {
		case "exit", "quit":
			cyan.Fprintln(cb.out, "\n👋 Goodbye! It was nice chatting with you!")
			return nil

		case "history":
			cb.printHistory()
			continue

		case "clear":
			fmt.Fprint(cb.out, "\033[H\033[2J")
			cb.printBanner()
			yellow.Fprintf(cb.out, "\n✨ Screen cleared! Conversation history: %d messages\n\n", cb.conv.Len())
			continue

		case "reset":
			cb.reset()
			yellow.Fprint(cb.out, "\n🔄 Started a new conversation.\n\n")
			continue

		case "models":
			cb.printModels()
			continue

		case "recall":
			cb.printRecall(ctx, strings.TrimSpace(arg))
			continue
		}

		start := cb.now()
		answer, err := cb.Ask(ctx, input)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			cb.logger.Error("generate reply",
				zap.String("provider", string(cb.client.Provider())),
				zap.String("model", cb.client.Model()),
				zap.Error(err),
			)
			cb.printError(err)
			continue
		}
		cb.logger.Debug("reply", zap.Duration("elapsed", cb.now().Sub(start)), zap.Int("messages", cb.conv.Len()))

		magenta.Fprintf(cb.out, "\nBot (%s): ", GetTimeString(cb.now()))
		cb.printWithCodeHighlight(answer)
		fmt.Fprintln(cb.out)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
