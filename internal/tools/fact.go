package tools

import (
	"fmt"

	"github.com/firebase/genkit/go/ai"

	"github.com/lumian-ai/sellerchat/internal/thread"
	"github.com/lumian-ai/sellerchat/internal/turn"
)

// ClientFactToolName is the client-side tool the UI executes to reflect a
// saved fact in its local state.
const ClientFactToolName = "record_fact"

// SaveFactInput carries the fact text to record.
type SaveFactInput struct {
	Fact string `json:"fact" jsonschema_description:"The fact to save, phrased as a standalone statement"`
}

// SaveFactOutput confirms the save to the model.
type SaveFactOutput struct {
	FactID string `json:"fact_id"`
	Status string `json:"status"`
}

// SaveFact records a fact and immediately marks it saved. The saved fact
// is echoed into the thread as hidden context so later turns can see it,
// and a client action notifies the UI.
//
// Saving is best effort: any failure is logged and the tool returns
// nothing rather than aborting the turn.
func (k *Kit) SaveFact(ctx *ai.ToolContext, input SaveFactInput) (*SaveFactOutput, error) {
	tc := turn.FromContext(ctx.Context)
	if tc == nil {
		k.logger.Warn("save_fact invoked outside a turn")
		return nil, nil
	}

	fact := k.facts.Create(tc.Thread().ID, input.Fact)
	if err := k.facts.Save(fact.ID); err != nil {
		k.logger.Error("failed to save fact", "fact_id", fact.ID, "error", err)
		return nil, nil
	}

	content := fmt.Sprintf("<FACT_SAVED id=%q threadId=%q>%s</FACT_SAVED>", fact.ID, tc.Thread().ID, fact.Text)
	if err := tc.StreamItem(ctx.Context, thread.NewHiddenContext(tc.Thread().ID, content)); err != nil {
		k.logger.Error("failed to stream fact confirmation", "fact_id", fact.ID, "error", err)
		return nil, nil
	}

	tc.SetClientAction(ClientFactToolName, map[string]any{
		"fact_id":   fact.ID,
		"fact_text": fact.Text,
	})

	k.logger.Info("fact saved", "fact_id", fact.ID, "thread_id", tc.Thread().ID)
	return &SaveFactOutput{FactID: fact.ID, Status: "saved"}, nil
}
