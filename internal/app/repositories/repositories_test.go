package repositories

import (
	"strings"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/aslmarket/backend/internal/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSB = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func TestPageApply(t *testing.T) {
	sql, _, err := Page{Page: 3, Size: 20}.apply(testSB.Select("id").From("users")).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM users LIMIT 20 OFFSET 40", sql)

	sql, _, err = Page{}.apply(testSB.Select("id").From("users")).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM users LIMIT 10 OFFSET 0", sql)
}

func TestSearchAny(t *testing.T) {
	sql, args, err := testSB.Select("id").From("suppliers").Where(searchAny(" zaf ", "brand_name", "city")).ToSql()
	require.NoError(t, err)
	assert.Equal(t, `SELECT id FROM suppliers WHERE (brand_name ILIKE $1 ESCAPE '\' OR city ILIKE $2 ESCAPE '\')`, sql)
	assert.Equal(t, []interface{}{"%zaf%", "%zaf%"}, args)
}

func TestSearchAnyEscapesWildcards(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"%", `%\%%`},
		{"a_b", `%a\_b%`},
		{`c:\dir`, `%c:\\dir%`},
		{"zaf", "%zaf%"},
	}
	for _, tt := range tests {
		_, args, err := testSB.Select("id").From("products").Where(searchAny(tt.term, "name")).ToSql()
		require.NoError(t, err)
		assert.Equal(t, []interface{}{tt.want}, args, tt.term)
	}
}

func TestProductBulkStatusQuery(t *testing.T) {
	r := &ProductRepository{sb: testSB}

	sql, args, err := r.bulkStatusQuery([]int64{5, 6}, models.ProductActive).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE products SET status = CASE WHEN stock = 0 THEN $1 ELSE $2 END, updated_at = $3 WHERE id IN ($4,$5)", sql)
	assert.Equal(t, "out_of_stock", args[0])
	assert.Equal(t, "active", args[1])
	assert.Equal(t, []interface{}{int64(5), int64(6)}, args[3:])

	sql, args, err = r.bulkStatusQuery([]int64{5}, models.ProductInactive).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE products SET status = $1, updated_at = $2 WHERE id IN ($3)", sql)
	assert.Equal(t, "inactive", args[0])
}

func TestNonNil(t *testing.T) {
	assert.Equal(t, []string{}, nonNil(nil))
	assert.Equal(t, []string{"a"}, nonNil([]string{"a"}))
}

func TestUserFilter(t *testing.T) {
	r := &UserRepository{sb: testSB}
	sql, args, err := r.filtered(testSB.Select("COUNT(*)").From("users"), UserFilter{Role: "admin", Status: "active"}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM users WHERE role = $1 AND status = $2", sql)
	assert.Equal(t, []interface{}{"admin", "active"}, args)
}

func TestOpenAt(t *testing.T) {
	sql, _, err := testSB.Select("id").From("matching_requests").Where(openAt(testNow)).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "status IN ($1,$2)")
	assert.Contains(t, sql, "expires_at > $3")
	assert.Contains(t, sql, "accepted_visitor_id IS NULL")
}

func TestResearchFilterHSPrefix(t *testing.T) {
	r := &ResearchProductRepository{sb: testSB}
	_, args, err := r.filtered(testSB.Select("id").From("research_products"), ResearchProductFilter{HSCode: "0813"}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"0813%"}, args)
}

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestAcceptQueryOnlyMatchesOpenRequests(t *testing.T) {
	sql, args, err := acceptQuery(testSB, 100, 2, testNow).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "UPDATE matching_requests SET status = $1, accepted_visitor_id = $2")
	assert.Contains(t, sql, "accepted_visitor_id IS NULL")
	assert.Contains(t, sql, "status IN (")
	assert.Contains(t, args, int64(100))
	assert.Contains(t, args, int64(2))
}

func TestFeedSelectResolvesReadStatePerUser(t *testing.T) {
	repo := NewNotificationRepository(nil)
	sql, args, err := repo.feedSelect(7).Where(squirrel.Eq{"id": int64(1)}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "(notifications.is_read OR EXISTS (SELECT 1 FROM notification_reads nr "+
		"WHERE nr.notification_id = notifications.id AND nr.user_id = $1)) AS is_read")
	assert.Contains(t, sql, "WHERE id = $2")
	assert.Equal(t, []interface{}{int64(7), int64(1)}, args)
}

func TestBroadcastReadQueries(t *testing.T) {
	t.Run("single read ignores repeats", func(t *testing.T) {
		sql, args, err := broadcastReadQuery(testSB, 5, 7, testNow).ToSql()
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO notification_reads (notification_id,user_id,read_at) VALUES ($1,$2,$3) "+
			"ON CONFLICT (notification_id, user_id) DO NOTHING", sql)
		assert.Equal(t, []interface{}{int64(5), int64(7), testNow}, args)
	})

	t.Run("read all covers only unread visible broadcasts", func(t *testing.T) {
		sql, args, err := broadcastReadAllQuery(testSB, 7, testNow).ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "INSERT INTO notification_reads (notification_id,user_id,read_at) SELECT notifications.id, $1::bigint, $2::timestamptz FROM notifications")
		assert.Contains(t, sql, "user_id IS NULL")
		assert.Contains(t, sql, "NOT EXISTS (SELECT 1 FROM notification_reads nr")
		assert.True(t, strings.HasSuffix(sql, "ON CONFLICT (notification_id, user_id) DO NOTHING RETURNING notification_id"))
		assert.Equal(t, int64(7), args[0])
		assert.Equal(t, int64(7), args[len(args)-1])
	})
}

func TestTicketFilter(t *testing.T) {
	userID := int64(4)
	q := ticketFiltered(testSB.Select("t.id").From("support_tickets t"), TicketFilter{
		UserID:   &userID,
		Status:   models.TicketWaitingResponse,
		Category: models.TicketBilling,
	})
	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT t.id FROM support_tickets t WHERE t.user_id = $1 AND t.status = $2 AND t.category = $3", sql)
	assert.Equal(t, []interface{}{int64(4), models.TicketWaitingResponse, models.TicketBilling}, args)
}

func TestActivateQueryOnlyClaimsUnusedLicense(t *testing.T) {
	l := &models.License{ID: 3, Duration: 12}
	l.Activate(8, testNow)

	sql, args, err := activateQuery(testSB, l).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "UPDATE licenses SET is_used = $1, used_by = $2, used_at = $3, expires_at = $4")
	assert.Contains(t, sql, "WHERE id = $6 AND is_used = $7")
	assert.Equal(t, int64(3), args[5])
	assert.Equal(t, false, args[6])
}
