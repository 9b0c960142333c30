package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// AttemptsColumns holds the columns for the "attempts" table.
	AttemptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "attempt_id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString, Default: ""},
		{Name: "skill", Type: field.TypeString},
		{Name: "test_number", Type: field.TypeInt},
		{Name: "status", Type: field.TypeString},
		{Name: "correct", Type: field.TypeInt, Default: 0},
		{Name: "total", Type: field.TypeInt, Default: 0},
		{Name: "band", Type: field.TypeFloat64, Default: 0},
		{Name: "average_rating", Type: field.TypeFloat64, Default: 0},
		{Name: "word_count", Type: field.TypeInt, Default: 0},
		{Name: "elapsed_seconds", Type: field.TypeInt, Default: 0},
		{Name: "submitted", Type: field.TypeBool, Default: false},
		{Name: "submit_error", Type: field.TypeString, Default: ""},
		{Name: "completed_at", Type: field.TypeTime},
	}
	// AttemptsTable holds the schema information for the "attempts" table.
	AttemptsTable = &schema.Table{
		Name:       "attempts",
		Columns:    AttemptsColumns,
		PrimaryKey: []*schema.Column{AttemptsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "attempt_skill", Columns: []*schema.Column{AttemptsColumns[5]}},
			{Name: "attempt_completed_at", Columns: []*schema.Column{AttemptsColumns[16]}},
		},
	}

	// LLMRequestsColumns holds the columns for the "llm_requests" table.
	LLMRequestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LLMRequestsTable holds the schema information for the "llm_requests" table.
	LLMRequestsTable = &schema.Table{
		Name:       "llm_requests",
		Columns:    LLMRequestsColumns,
		PrimaryKey: []*schema.Column{LLMRequestsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequest_provider", Columns: []*schema.Column{LLMRequestsColumns[3]}},
			{Name: "llmrequest_purpose", Columns: []*schema.Column{LLMRequestsColumns[5]}},
		},
	}

	// ResultsColumns holds the columns for the "results" table.
	ResultsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "test_type", Type: field.TypeString},
		{Name: "test_number", Type: field.TypeInt},
		{Name: "status", Type: field.TypeString},
		{Name: "completed_at", Type: field.TypeTime},
		{Name: "received_at", Type: field.TypeTime},
		{Name: "payload", Type: field.TypeString, Size: 2147483647},
	}
	// ResultsTable holds the schema information for the "results" table.
	ResultsTable = &schema.Table{
		Name:       "results",
		Columns:    ResultsColumns,
		PrimaryKey: []*schema.Column{ResultsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "result_user_id", Columns: []*schema.Column{ResultsColumns[1]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		AttemptsTable,
		LLMRequestsTable,
		ResultsTable,
	}
)
