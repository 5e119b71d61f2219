package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clustgo/clust/internal/config"
	"github.com/clustgo/clust/internal/imageprep"
	"github.com/clustgo/clust/internal/messages"
	"github.com/clustgo/clust/internal/observability"
	"github.com/clustgo/clust/internal/output"
	"github.com/clustgo/clust/internal/prompt"
)

type messageOptions struct {
	model         string
	maxTokens     int
	system        string
	temperature   float64
	topP          float64
	topK          int
	stop          []string
	userID        string
	images        []string
	maxDimension  int
	promptFile    string
	output        string
	out           string
	functionCalls bool
	dryRun        bool
}

var messageOpts messageOptions

var messageCmd = &cobra.Command{
	Use:   "message [text...]",
	Short: "Send a message and print the reply",
	Long: `Send one user message to the Messages API and print the reply.

The message text comes from the arguments, "-" for stdin, or the body of a
--prompt-file. Request settings resolve in order: config defaults, prompt
file frontmatter, then flags.`,
	Example: `  clust message "Summarize the plot of Hamlet in one line"
  clust message --image chart.png --max-dimension 1024 "What does this chart show?"
  clust message --prompt-file prompts/tools.md --function-calls -o json`,
	RunE: runMessage,
}

func init() {
	rootCmd.AddCommand(messageCmd)

	flags := messageCmd.Flags()
	flags.StringVarP(&messageOpts.model, "model", "m", "", "model name (default from config, then "+string(messages.DefaultClaudeModel)+")")
	flags.IntVar(&messageOpts.maxTokens, "max-tokens", 0, "maximum output tokens (default: model maximum)")
	flags.StringVarP(&messageOpts.system, "system", "s", "", "system prompt")
	flags.Float64Var(&messageOpts.temperature, "temperature", 0, "sampling temperature in [0, 1]")
	flags.Float64Var(&messageOpts.topP, "top-p", 0, "nucleus sampling threshold in [0, 1]")
	flags.IntVar(&messageOpts.topK, "top-k", 0, "sample from the top K tokens")
	flags.StringArrayVar(&messageOpts.stop, "stop", nil, "stop sequence (repeatable)")
	flags.StringVar(&messageOpts.userID, "user-id", "", "opaque end-user identifier sent as metadata")
	flags.StringArrayVarP(&messageOpts.images, "image", "i", nil, "image file to attach (repeatable)")
	flags.IntVar(&messageOpts.maxDimension, "max-dimension", 0, "downscale images so the longest side fits (0 disables)")
	flags.StringVarP(&messageOpts.promptFile, "prompt-file", "f", "", "markdown prompt file with optional YAML frontmatter")
	flags.StringVarP(&messageOpts.output, "output", "o", "", "output format: table, json, markdown, yaml, text")
	flags.StringVar(&messageOpts.out, "out", "", "write output to a file instead of stdout")
	flags.BoolVar(&messageOpts.functionCalls, "function-calls", false, "decode a <function_calls> block from the reply")
	flags.BoolVar(&messageOpts.dryRun, "dry-run", false, "print the request body without sending it")
}

func runMessage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("%w: %w", errConfigLoad, err)
	}

	var p *prompt.Prompt
	if strings.TrimSpace(messageOpts.promptFile) != "" {
		p, err = prompt.LoadFile(messageOpts.promptFile)
		if err != nil {
			return err
		}
	}

	text, err := messageText(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	settings := resolveSettings(cfg.Defaults, p, messageOpts, cmd.Flags().Changed, text)
	body, err := buildRequestBody(settings)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(firstNonEmpty(messageOpts.output, cfg.Output.Format))
	if err != nil {
		return err
	}

	if messageOpts.dryRun {
		return writeRendered(cmd, messageOpts.out, body.String())
	}

	apiClient, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	observability.CLILogger.Debug("Sending message",
		zap.String("model", body.Model.String()),
		zap.Int("max_tokens", body.MaxTokens.Value()),
		zap.Int("images", len(settings.Images)))

	resp, err := apiClient.CreateAMessage(cmd.Context(), body)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(format)
	rendered, err := formatter.FormatResponse(resp)
	if err != nil {
		return err
	}
	if !messageOpts.functionCalls {
		return writeRendered(cmd, messageOpts.out, rendered)
	}

	calls, err := resp.ExcludeFunctionCalls()
	if err != nil {
		if writeErr := writeRendered(cmd, messageOpts.out, rendered); writeErr != nil {
			return writeErr
		}
		return fmt.Errorf("decode function calls from reply: %w", err)
	}
	renderedCalls, err := formatter.FormatFunctionCalls(calls)
	if err != nil {
		return err
	}
	return writeRendered(cmd, messageOpts.out, rendered, renderedCalls)
}

// requestSettings is the merged view of config defaults, prompt frontmatter and flags.
type requestSettings struct {
	Model         string
	MaxTokens     int
	System        string
	Temperature   *float64
	TopP          *float64
	TopK          *int
	StopSequences []string
	UserID        string
	Images        []string
	MaxDimension  int
	Text          string
}

// resolveSettings layers defaults, then the prompt file, then flags that were
// explicitly set. Positional text replaces the prompt body.
func resolveSettings(defaults config.DefaultsConfig, p *prompt.Prompt, opts messageOptions, changed func(string) bool, text string) requestSettings {
	s := requestSettings{
		Model:         defaults.Model,
		MaxTokens:     defaults.MaxTokens,
		System:        defaults.System,
		Temperature:   defaults.Temperature,
		TopP:          defaults.TopP,
		TopK:          defaults.TopK,
		StopSequences: defaults.StopSequences,
		UserID:        defaults.UserID,
		MaxDimension:  defaults.MaxDimension,
	}

	if p != nil {
		pc := p.Config
		s.Model = firstNonEmpty(pc.Model, s.Model)
		if pc.MaxTokens != 0 {
			s.MaxTokens = pc.MaxTokens
		}
		s.System = firstNonEmpty(pc.System, s.System)
		if pc.Temperature != nil {
			s.Temperature = pc.Temperature
		}
		if pc.TopP != nil {
			s.TopP = pc.TopP
		}
		if pc.TopK != nil {
			s.TopK = pc.TopK
		}
		if len(pc.StopSequences) > 0 {
			s.StopSequences = pc.StopSequences
		}
		s.UserID = firstNonEmpty(pc.UserID, s.UserID)
		s.Images = p.ImagePaths()
		s.Text = p.Body
	}

	if changed("model") {
		s.Model = opts.model
	}
	if changed("max-tokens") {
		s.MaxTokens = opts.maxTokens
	}
	if changed("system") {
		s.System = opts.system
	}
	if changed("temperature") {
		s.Temperature = &opts.temperature
	}
	if changed("top-p") {
		s.TopP = &opts.topP
	}
	if changed("top-k") {
		s.TopK = &opts.topK
	}
	if changed("stop") {
		s.StopSequences = opts.stop
	}
	if changed("user-id") {
		s.UserID = opts.userID
	}
	if changed("image") {
		s.Images = append(s.Images, opts.images...)
	}
	if changed("max-dimension") {
		s.MaxDimension = opts.maxDimension
	}
	if strings.TrimSpace(text) != "" {
		s.Text = text
	}
	return s
}

// buildRequestBody validates every setting through the messages constructors.
func buildRequestBody(s requestSettings) (messages.MessagesRequestBody, error) {
	model := messages.DefaultClaudeModel
	if strings.TrimSpace(s.Model) != "" {
		parsed, err := messages.ParseClaudeModel(strings.TrimSpace(s.Model))
		if err != nil {
			return messages.MessagesRequestBody{}, err
		}
		model = parsed
	}

	content, err := messageContent(s)
	if err != nil {
		return messages.MessagesRequestBody{}, err
	}

	builder := messages.NewRequestBuilder(model).Messages(messages.NewUserMessage(content))
	if s.MaxTokens != 0 {
		maxTokens, err := messages.NewMaxTokens(s.MaxTokens, model)
		if err != nil {
			return messages.MessagesRequestBody{}, err
		}
		builder.MaxTokens(maxTokens)
	}
	if s.System != "" {
		builder.System(messages.NewSystemPrompt(s.System))
	}
	if s.Temperature != nil {
		temperature, err := messages.NewTemperature(*s.Temperature)
		if err != nil {
			return messages.MessagesRequestBody{}, err
		}
		builder.Temperature(temperature)
	}
	if s.TopP != nil {
		topP, err := messages.NewTopP(*s.TopP)
		if err != nil {
			return messages.MessagesRequestBody{}, err
		}
		builder.TopP(topP)
	}
	if s.TopK != nil {
		topK, err := messages.NewTopK(*s.TopK)
		if err != nil {
			return messages.MessagesRequestBody{}, err
		}
		builder.TopK(topK)
	}
	for _, value := range s.StopSequences {
		sequence, err := messages.NewStopSequence(value)
		if err != nil {
			return messages.MessagesRequestBody{}, err
		}
		builder.StopSequences(sequence)
	}
	if s.UserID != "" {
		userID, err := messages.NewUserID(s.UserID)
		if err != nil {
			return messages.MessagesRequestBody{}, err
		}
		builder.Metadata(messages.Metadata{UserID: &userID})
	}
	return builder.Build()
}

// messageContent sends plain text as a bare string; images switch to blocks,
// images first and the text last.
func messageContent(s requestSettings) (messages.Content, error) {
	text := strings.TrimSpace(s.Text)
	if len(s.Images) == 0 {
		if text == "" {
			return messages.Content{}, errors.New("message text is required (pass it as arguments, \"-\" for stdin, or --prompt-file)")
		}
		return messages.NewTextContent(text), nil
	}

	blocks := make([]messages.ContentBlock, 0, len(s.Images)+1)
	for _, path := range s.Images {
		source, err := imageprep.Load(path, imageprep.Options{MaxDimension: s.MaxDimension})
		if err != nil {
			return messages.Content{}, err
		}
		blocks = append(blocks, messages.NewImageBlock(source))
	}
	if text != "" {
		blocks = append(blocks, messages.NewTextBlock(text))
	}
	return messages.NewBlocksContent(blocks...), nil
}

// messageText joins positional arguments; a single "-" reads stdin.
func messageText(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		return readSource(stdin, "-")
	}
	return strings.Join(args, " "), nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
