package storage

import (
	"fmt"

	"noticeboard/backend/internal/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Migrate creates the board tables and installs the change triggers that feed realtime notifications.
func Migrate(db *gorm.DB, notifyChannel string) error {
	err := db.AutoMigrate(
		&models.Profile{},
		&models.Post{},
		&models.PollOption{},
		&models.PollVote{},
		&models.PostLike{},
		&models.AnonymousSubmission{},
	)
	if err != nil {
		return fmt.Errorf("storage: migrate: %w", err)
	}
	for _, stmt := range TriggerStatements(notifyChannel) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("storage: install triggers: %w", err)
		}
	}
	return nil
}

const notifyFunction = `
CREATE OR REPLACE FUNCTION notify_board_change() RETURNS trigger AS $$
DECLARE
	rec RECORD;
BEGIN
	IF TG_OP = 'DELETE' THEN
		rec := OLD;
	ELSE
		rec := NEW;
	END IF;
	PERFORM pg_notify(TG_ARGV[0], json_build_object(
		'table', TG_TABLE_NAME,
		'type', TG_OP,
		'id', rec.id
	)::text);
	RETURN rec;
END;
$$ LANGUAGE plpgsql`

// TriggerTables are the tables whose changes are pushed to viewers.
var TriggerTables = []string{
	models.TablePosts,
	models.TablePollOptions,
	models.TablePollVotes,
	models.TablePostLikes,
	models.TableSubmissions,
	models.TableProfiles,
}

// TriggerStatements returns the SQL installing notify_board_change on every board table.
func TriggerStatements(channel string) []string {
	stmts := []string{notifyFunction}
	for _, table := range TriggerTables {
		name := pq.QuoteIdentifier(table)
		stmts = append(stmts,
			fmt.Sprintf("DROP TRIGGER IF EXISTS board_change ON %s", name),
			fmt.Sprintf(
				"CREATE TRIGGER board_change AFTER INSERT OR UPDATE OR DELETE ON %s FOR EACH ROW EXECUTE FUNCTION notify_board_change(%s)",
				name, pq.QuoteLiteral(channel),
			),
		)
	}
	return stmts
}
