package store

const createTableSQL = `
CREATE TABLE IF NOT EXISTS reports (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    report_id       TEXT NOT NULL UNIQUE,
    hostname        TEXT NOT NULL,
    scanned_at      TEXT NOT NULL,
    stored_at       TEXT NOT NULL,
    update_count    INTEGER NOT NULL DEFAULT 0,
    top_priority    TEXT NOT NULL DEFAULT '',
    report_json     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_hostname ON reports(hostname);
CREATE INDEX IF NOT EXISTS idx_reports_scanned_at ON reports(scanned_at);
`
