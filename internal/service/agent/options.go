package agent

import (
	"context"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/compose"
	einoagent "github.com/cloudwego/eino/flow/agent"
)

type sendOptions struct {
	toolNotifier func(toolName string)
}

// SendOption adjusts a single exchange.
type SendOption func(*sendOptions)

// WithToolNotifier registers a callback fired when the agent starts a tool
// call. Live surfaces use it to show progress while the turn runs.
func WithToolNotifier(fn func(toolName string)) SendOption {
	return func(o *sendOptions) { o.toolNotifier = fn }
}

func applySendOptions(opts []SendOption) sendOptions {
	var options sendOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// agentOptions translates the exchange options into eino agent options.
func (o sendOptions) agentOptions() []einoagent.AgentOption {
	if o.toolNotifier == nil {
		return nil
	}

	notify := o.toolNotifier
	handler := callbacks.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *callbacks.RunInfo, _ callbacks.CallbackInput) context.Context {
			if info != nil && info.Component == components.ComponentOfTool {
				notify(info.Name)
			}
			return ctx
		}).
		Build()

	return []einoagent.AgentOption{einoagent.WithComposeOptions(compose.WithCallbacks(handler))}
}
