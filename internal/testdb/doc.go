// Package testdb provides utilities for database integration tests.
//
// Each test runs in its own transaction, which is rolled back when the test
// completes, so tests can share a schema and run in parallel without
// interfering with each other.
//
//	func TestDatasetStore(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        s, err := postgres.NewPostgresDatasetStore(tx, nil)
//	        require.NoError(t, err)
//	        // ...
//	    })
//	}
//
// Tests are skipped when neither FOREST_TEST_DATABASE_URL nor DATABASE_URL is
// set, unless they run in CI, where they fail instead.
package testdb
