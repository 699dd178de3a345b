package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    run_id               TEXT PRIMARY KEY,
    session_id           TEXT NOT NULL,
    file_path            TEXT NOT NULL,
    project              TEXT,
    phase                INTEGER NOT NULL DEFAULT 0,
    analyzed_at          TEXT NOT NULL,
    input_tokens         INTEGER,
    output_tokens        INTEGER,
    cache_creation       INTEGER,
    cache_read           INTEGER,
    api_calls            INTEGER,
    user_messages        INTEGER,
    assistant_messages   INTEGER,
    tool_calls           INTEGER
);

CREATE TABLE IF NOT EXISTS run_tools (
    run_id               TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    tool                 TEXT NOT NULL,
    calls                INTEGER NOT NULL,
    PRIMARY KEY (run_id, tool)
);

CREATE INDEX IF NOT EXISTS idx_runs_analyzed ON runs(analyzed_at);
CREATE INDEX IF NOT EXISTS idx_runs_project ON runs(project);
`
