package transcriptcache

import "context"

func SetSchemaVersionForTest(c *Cache, version int) error {
	_, err := c.db.ExecContext(context.Background(), "UPDATE schema_version SET version = ?", version)
	return err
}
