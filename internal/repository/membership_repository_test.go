package repository

import (
	"testing"

	"go-inventory-webapp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database with the inventory schema.
// The same GORM code paths run against it as against MySQL in production.
func setupTestDB(t *testing.T) *Database {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to open test database")

	db := &Database{gdb}
	require.NoError(t, db.Migrate(), "failed to migrate test database")
	return db
}

func seedProduct(t *testing.T, db *Database, name, barcode string) *models.Product {
	t.Helper()
	product := &models.Product{Name: name, Price: 9.99, Barcode: barcode}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedGroup(t *testing.T, db *Database, name string) *models.ProductGroup {
	t.Helper()
	group := &models.ProductGroup{Name: name}
	require.NoError(t, db.Create(group).Error)
	return group
}

func groupCount(t *testing.T, db *Database, groupID uint) int {
	t.Helper()
	var group models.ProductGroup
	require.NoError(t, db.First(&group, groupID).Error)
	return group.Count
}

func membershipRows(t *testing.T, db *Database, groupID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.ProductGroupMembership{}).
		Where("product_group_id = ?", groupID).Count(&n).Error)
	return n
}

// requireCountAccurate asserts the central invariant: the stored count
// equals the number of live membership rows.
func requireCountAccurate(t *testing.T, db *Database, groupID uint) {
	t.Helper()
	require.EqualValues(t, membershipRows(t, db, groupID), groupCount(t, db, groupID),
		"group %d count drifted from membership cardinality", groupID)
}

func TestMembershipAddIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db)

	product := seedProduct(t, db, "Red Mug", "REDMUG-001")
	group := seedGroup(t, db, "Kitchen")

	require.NoError(t, repo.Add(product.ProductID, group.GroupID))
	assert.Equal(t, 1, groupCount(t, db, group.GroupID))

	// Re-adding the same pair must not bump the count again.
	require.NoError(t, repo.Add(product.ProductID, group.GroupID))
	assert.Equal(t, 1, groupCount(t, db, group.GroupID))
	requireCountAccurate(t, db, group.GroupID)
}

func TestMembershipAddUnknownIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db)

	product := seedProduct(t, db, "Red Mug", "REDMUG-001")
	group := seedGroup(t, db, "Kitchen")

	err := repo.Add(product.ProductID, group.GroupID+99)
	assert.ErrorIs(t, err, models.ErrGroupNotFound)

	err = repo.Add(product.ProductID+99, group.GroupID)
	assert.ErrorIs(t, err, models.ErrProductNotFound)

	assert.Equal(t, 0, groupCount(t, db, group.GroupID))
	assert.EqualValues(t, 0, membershipRows(t, db, group.GroupID))
}

func TestMembershipRemoveIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db)

	product := seedProduct(t, db, "Red Mug", "REDMUG-001")
	group := seedGroup(t, db, "Kitchen")
	require.NoError(t, repo.Add(product.ProductID, group.GroupID))

	require.NoError(t, repo.Remove(product.ProductID, group.GroupID))
	assert.Equal(t, 0, groupCount(t, db, group.GroupID))

	// Removing an absent pair is a no-op and must not go negative.
	require.NoError(t, repo.Remove(product.ProductID, group.GroupID))
	assert.Equal(t, 0, groupCount(t, db, group.GroupID))
	requireCountAccurate(t, db, group.GroupID)
}

func TestMembershipCountFlooredOnDrift(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db)

	product := seedProduct(t, db, "Red Mug", "REDMUG-001")
	group := seedGroup(t, db, "Kitchen")
	require.NoError(t, repo.Add(product.ProductID, group.GroupID))

	// Simulate drift: the count claims zero while a row exists.
	require.NoError(t, db.Model(&models.ProductGroup{}).
		Where("id = ?", group.GroupID).Update("count", 0).Error)

	require.NoError(t, repo.Remove(product.ProductID, group.GroupID))
	assert.Equal(t, 0, groupCount(t, db, group.GroupID), "count must floor at zero")
}

func TestReplaceForProduct(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db)

	product := seedProduct(t, db, "Red Mug", "REDMUG-001")
	a := seedGroup(t, db, "A")
	b := seedGroup(t, db, "B")
	c := seedGroup(t, db, "C")

	require.NoError(t, repo.Add(product.ProductID, a.GroupID))
	require.NoError(t, repo.Add(product.ProductID, b.GroupID))

	require.NoError(t, repo.ReplaceForProduct(product.ProductID, []uint{b.GroupID, c.GroupID}))

	assert.Equal(t, 0, groupCount(t, db, a.GroupID))
	assert.Equal(t, 1, groupCount(t, db, b.GroupID))
	assert.Equal(t, 1, groupCount(t, db, c.GroupID))
	for _, g := range []uint{a.GroupID, b.GroupID, c.GroupID} {
		requireCountAccurate(t, db, g)
	}

	groups, err := repo.GroupsForProduct(product.ProductID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
}

func TestReplaceForProductEmptySetDetachesAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db)

	product := seedProduct(t, db, "Red Mug", "REDMUG-001")
	a := seedGroup(t, db, "A")
	require.NoError(t, repo.Add(product.ProductID, a.GroupID))

	require.NoError(t, repo.ReplaceForProduct(product.ProductID, nil))
	assert.Equal(t, 0, groupCount(t, db, a.GroupID))
	requireCountAccurate(t, db, a.GroupID)
}

func TestReplaceForProductUnknownGroupFailsWhole(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db)

	product := seedProduct(t, db, "Red Mug", "REDMUG-001")
	a := seedGroup(t, db, "A")
	require.NoError(t, repo.Add(product.ProductID, a.GroupID))

	err := repo.ReplaceForProduct(product.ProductID, []uint{a.GroupID, a.GroupID + 99})
	assert.ErrorIs(t, err, models.ErrGroupNotFound)

	// The old membership must be untouched: no partial replacement.
	assert.Equal(t, 1, groupCount(t, db, a.GroupID))
	assert.EqualValues(t, 1, membershipRows(t, db, a.GroupID))
}

func TestBulkAssign(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db)

	group := seedGroup(t, db, "G")
	p1 := seedProduct(t, db, "Red Mug", "REDMUG-001")
	p2 := seedProduct(t, db, "RED MUG", "REDMUG-002")
	p3 := seedProduct(t, db, "Blue Mug", "BLUEMUG-001")

	// p1 is already a member; the bulk call must only count new rows.
	require.NoError(t, repo.Add(p1.ProductID, group.GroupID))

	err := repo.BulkAssign(group.GroupID, []uint{p1.ProductID, p2.ProductID, p3.ProductID, p3.ProductID})
	require.NoError(t, err)

	assert.Equal(t, 3, groupCount(t, db, group.GroupID))
	requireCountAccurate(t, db, group.GroupID)
}

func TestBulkAssignUnknownProductFailsWhole(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db)

	group := seedGroup(t, db, "G")
	p1 := seedProduct(t, db, "Red Mug", "REDMUG-001")

	err := repo.BulkAssign(group.GroupID, []uint{p1.ProductID, p1.ProductID + 99})
	assert.ErrorIs(t, err, models.ErrProductNotFound)

	assert.Equal(t, 0, groupCount(t, db, group.GroupID))
	assert.EqualValues(t, 0, membershipRows(t, db, group.GroupID))
}

func TestBulkAssignUnknownGroup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db)

	p1 := seedProduct(t, db, "Red Mug", "REDMUG-001")
	err := repo.BulkAssign(12345, []uint{p1.ProductID})
	assert.ErrorIs(t, err, models.ErrGroupNotFound)
}

func TestRemoveAllForProduct(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db)

	product := seedProduct(t, db, "Red Mug", "REDMUG-001")
	a := seedGroup(t, db, "A")
	b := seedGroup(t, db, "B")
	require.NoError(t, repo.Add(product.ProductID, a.GroupID))
	require.NoError(t, repo.Add(product.ProductID, b.GroupID))

	require.NoError(t, repo.RemoveAllForProduct(product.ProductID))

	assert.Equal(t, 0, groupCount(t, db, a.GroupID))
	assert.Equal(t, 0, groupCount(t, db, b.GroupID))

	var rows int64
	require.NoError(t, db.Model(&models.ProductGroupMembership{}).
		Where("product_id = ?", product.ProductID).Count(&rows).Error)
	assert.EqualValues(t, 0, rows)
}

func TestRemoveAllForGroup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db)

	group := seedGroup(t, db, "G")
	p1 := seedProduct(t, db, "Red Mug", "REDMUG-001")
	p2 := seedProduct(t, db, "Blue Mug", "BLUEMUG-001")
	require.NoError(t, repo.Add(p1.ProductID, group.GroupID))
	require.NoError(t, repo.Add(p2.ProductID, group.GroupID))

	require.NoError(t, repo.RemoveAllForGroup(group.GroupID))

	assert.Equal(t, 0, groupCount(t, db, group.GroupID))
	assert.EqualValues(t, 0, membershipRows(t, db, group.GroupID))

	// Member products survive the strip.
	var products int64
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.EqualValues(t, 2, products)
}

func TestProductsInGroup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMembershipRepository(db)

	group := seedGroup(t, db, "G")
	p1 := seedProduct(t, db, "Red Mug", "REDMUG-001")
	seedProduct(t, db, "Blue Mug", "BLUEMUG-001")
	require.NoError(t, repo.Add(p1.ProductID, group.GroupID))

	products, err := repo.ProductsInGroup(group.GroupID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, p1.ProductID, products[0].ProductID)

	_, err = repo.ProductsInGroup(group.GroupID + 99)
	assert.ErrorIs(t, err, models.ErrGroupNotFound)
}
