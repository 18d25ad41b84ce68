package devserver

// Schema DDL. Statements are idempotent so Attach can run them against an
// existing database file.
const (
	createAdmins = `CREATE TABLE IF NOT EXISTS admins (
    admin_id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL DEFAULT '',
    password_hash BLOB NOT NULL
);`

	createProjects = `CREATE TABLE IF NOT EXISTS projects (
    project_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);`

	createMilestones = `CREATE TABLE IF NOT EXISTS milestones (
    milestone_id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    due_date TEXT NOT NULL DEFAULT ''
);`

	// position keeps attach order; rowid order is not stable across detach.
	createProjectMilestones = `CREATE TABLE IF NOT EXISTS project_milestones (
    project_id INTEGER NOT NULL,
    milestone_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (project_id, milestone_id),
    FOREIGN KEY (project_id) REFERENCES projects(project_id) ON DELETE CASCADE,
    FOREIGN KEY (milestone_id) REFERENCES milestones(milestone_id) ON DELETE CASCADE
);`

	createCriteria = `CREATE TABLE IF NOT EXISTS criteria (
    criterion_id INTEGER PRIMARY KEY AUTOINCREMENT,
    milestone_id INTEGER NOT NULL,
    title TEXT NOT NULL,
    FOREIGN KEY (milestone_id) REFERENCES milestones(milestone_id) ON DELETE CASCADE
);`
)

// Index DDL.
const (
	idxProjectMilestonesPosition = `CREATE INDEX IF NOT EXISTS idx_project_milestones_position ON project_milestones(project_id, position);`
	idxCriteriaMilestone         = `CREATE INDEX IF NOT EXISTS idx_criteria_milestone ON criteria(milestone_id);`
)

// schemaStatements is executed in order on Attach.
var schemaStatements = []string{
	createAdmins,
	createProjects,
	createMilestones,
	createProjectMilestones,
	createCriteria,
	idxProjectMilestonesPosition,
	idxCriteriaMilestone,
}
