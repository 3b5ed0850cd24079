package tracing

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openDryDB builds a gorm handle without touching a server.
func openDryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "lms:lms@tcp(127.0.0.1:3306)/lms?parseTime=True&loc=Local",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)
	return db
}

func TestGormTracingPluginRegistersCallbacks(t *testing.T) {
	db := openDryDB(t)
	require.NoError(t, db.Use(&GormTracingPlugin{}))

	cb := db.Callback()
	processors := map[string]interface {
		Get(name string) func(*gorm.DB)
	}{
		"create": cb.Create(),
		"query":  cb.Query(),
		"update": cb.Update(),
		"delete": cb.Delete(),
		"row":    cb.Row(),
		"raw":    cb.Raw(),
	}
	for op, p := range processors {
		require.NotNil(t, p.Get(callbackPrefix+":before_"+op), op)
		require.NotNil(t, p.Get(callbackPrefix+":after_"+op), op)
	}
}

func TestGormTracingPluginWithoutParentSpan(t *testing.T) {
	db := openDryDB(t)
	require.NoError(t, db.Use(&GormTracingPlugin{}))

	stmt := db.Session(&gorm.Session{NewDB: true})
	p := &GormTracingPlugin{}
	p.beforeCallback("db.sql.query")(stmt)
	_, ok := stmt.InstanceGet(gormSpanKey)
	require.False(t, ok)

	require.NotPanics(t, func() { p.afterCallback(stmt) })
}
