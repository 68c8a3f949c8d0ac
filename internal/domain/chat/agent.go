package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/medspa/api/internal/config"
)

const systemPrompt = `You are a data analyst for a med-spa practice. Answer questions by
querying the PostgreSQL database with the tools provided.

Rules:
- Use only SELECT statements. Never write or alter data.
- Cap every result at %d rows (hard ceiling %d).
- Always call list_tables before querying, then describe_schema for the
  tables you intend to use. Never skip schema introspection.
- Money columns (price, amount) are integer cents.
- If execute_query returns an error, fix the statement and retry.
- Finish with a concise natural-language answer for the user.`

// Answer is the result of one Ask call. SQL and Rows reflect the last
// query the model executed, empty if it answered without querying.
type Answer struct {
	Answer string                   `json:"answer"`
	SQL    string                   `json:"sql"`
	Rows   []map[string]interface{} `json:"rows"`
}

type sqlRunner interface {
	Run(ctx context.Context, sql string, limit int) (string, []map[string]interface{}, error)
}

// conversation is one model chat exchange. The Gemini chat session
// satisfies it; tests substitute a scripted fake.
type conversation interface {
	Send(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Agent drives the tool-calling loop that turns a free-text question into
// sandboxed SQL and a natural-language answer.
type Agent struct {
	client       *genai.Client
	modelName    string
	sandbox      sqlRunner
	schema       SchemaSource
	defaultLimit int
	maxTurns     int

	start func(limit int) conversation
}

func NewAgent(ctx context.Context, cfg *config.Config, sandbox *Sandbox, schema SchemaSource) (*Agent, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	a := &Agent{
		client:       client,
		modelName:    cfg.GeminiModel,
		sandbox:      sandbox,
		schema:       schema,
		defaultLimit: cfg.ChatDefaultLimit,
		maxTurns:     cfg.ChatMaxTurns,
	}
	a.start = a.startGemini
	return a, nil
}

func (a *Agent) Close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

func (a *Agent) startGemini(limit int) conversation {
	model := a.client.GenerativeModel(a.modelName)
	model.Tools = toolDeclarations()
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(fmt.Sprintf(systemPrompt, limit, MaxLimit))},
	}
	return &geminiConversation{chat: model.StartChat()}
}

type geminiConversation struct {
	chat *genai.ChatSession
}

func (g *geminiConversation) Send(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	return g.chat.SendMessage(ctx, parts...)
}

// Ask runs the bounded tool-calling loop for one question. All transient
// state (table allow-list, last SQL and rows) lives in a per-call session
// so concurrent callers never share query context.
func (a *Agent) Ask(ctx context.Context, question string, limit int) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, &ValidationError{Reason: "question cannot be empty"}
	}
	if limit <= 0 {
		limit = a.defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	sess := &session{
		sandbox: a.sandbox,
		schema:  a.schema,
		limit:   limit,
		rows:    []map[string]interface{}{},
	}
	conv := a.start(limit)

	parts := []genai.Part{genai.Text(question)}
	for turn := 0; turn < a.maxTurns; turn++ {
		resp, err := conv.Send(ctx, parts...)
		if err != nil {
			return nil, fmt.Errorf("model call failed: %w", err)
		}

		calls := functionCalls(resp)
		if len(calls) == 0 {
			return &Answer{Answer: finalText(resp), SQL: sess.sql, Rows: sess.rows}, nil
		}

		parts = parts[:0]
		for _, call := range calls {
			parts = append(parts, genai.FunctionResponse{
				Name:     call.Name,
				Response: sess.dispatch(ctx, call),
			})
		}
	}

	return nil, fmt.Errorf("model produced no final answer within %d turns", a.maxTurns)
}

// session holds the per-Ask state the tools operate on.
type session struct {
	sandbox sqlRunner
	schema  SchemaSource
	limit   int

	tables map[string]bool
	sql    string
	rows   []map[string]interface{}
}

func (s *session) dispatch(ctx context.Context, call genai.FunctionCall) map[string]any {
	switch call.Name {
	case "list_tables":
		return s.listTables(ctx)
	case "describe_schema":
		return s.describeSchema(ctx, stringListArg(call.Args, "table_names"))
	case "check_query":
		return map[string]any{"sql": stripFences(stringArg(call.Args, "sql"))}
	case "execute_query":
		return s.executeQuery(ctx, stripFences(stringArg(call.Args, "sql")))
	default:
		return map[string]any{"error": fmt.Sprintf("unknown tool: %s", call.Name)}
	}
}

func (s *session) listTables(ctx context.Context) map[string]any {
	names, err := s.schema.ListTables(ctx)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	s.tables = make(map[string]bool, len(names))
	for _, n := range names {
		s.tables[n] = true
	}
	return map[string]any{"tables": jsonSafe(names)}
}

func (s *session) describeSchema(ctx context.Context, names []string) map[string]any {
	var allowed []string
	for _, n := range names {
		if s.tables[n] {
			allowed = append(allowed, n)
		}
	}
	if len(allowed) == 0 {
		return map[string]any{"message": "no known tables requested; call list_tables first"}
	}
	columns, err := s.schema.DescribeTables(ctx, allowed)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return map[string]any{"schema": jsonSafe(columns)}
}

func (s *session) executeQuery(ctx context.Context, sql string) map[string]any {
	bounded, rows, err := s.sandbox.Run(ctx, sql, s.limit)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	s.sql = bounded
	s.rows = rows
	return map[string]any{"rows": jsonSafe(rows), "row_count": len(rows)}
}

func stripFences(sql string) string {
	sql = strings.TrimSpace(sql)
	for _, prefix := range []string{"```sql", "```SQL", "```"} {
		if strings.HasPrefix(sql, prefix) {
			sql = strings.TrimSpace(strings.TrimPrefix(sql, prefix))
			break
		}
	}
	sql = strings.TrimSpace(strings.TrimSuffix(sql, "```"))
	return sql
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func stringListArg(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// jsonSafe round-trips a value through JSON so tool results contain only
// types the model transport accepts (times and numerics become strings
// and floats).
func jsonSafe(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return string(raw)
	}
	return out
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	var calls []genai.FunctionCall
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if fc, ok := part.(genai.FunctionCall); ok {
				calls = append(calls, fc)
			}
		}
	}
	return calls
}

// finalText extracts the model's textual answer, falling back to a
// stringified response when no text part is present.
func finalText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	if sb.Len() > 0 {
		return sb.String()
	}
	return fmt.Sprintf("%v", resp)
}

func toolDeclarations() []*genai.Tool {
	return []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "list_tables",
				Description: "List the tables available in the database.",
				Parameters: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: map[string]*genai.Schema{},
				},
			},
			{
				Name:        "describe_schema",
				Description: "Describe columns (name, type, nullability) for the given tables. Only tables returned by list_tables are known.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"table_names": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeString},
						},
					},
					Required: []string{"table_names"},
				},
			},
			{
				Name:        "check_query",
				Description: "Clean a SQL statement: strip code fences and surrounding whitespace.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"sql": {Type: genai.TypeString},
					},
					Required: []string{"sql"},
				},
			},
			{
				Name:        "execute_query",
				Description: "Validate and run a read-only SELECT statement. Returns rows or an error to correct.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"sql": {Type: genai.TypeString},
					},
					Required: []string{"sql"},
				},
			},
		},
	}}
}
