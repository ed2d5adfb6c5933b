package mysqldb

import (
	"database/sql"
	"fmt"

	"github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/mysql"

	"github.com/chetan123445/VK-WebPortal-sub002/config"
	appDb "github.com/chetan123445/VK-WebPortal-sub002/db"
)

type MySQLDB struct {
	*ThreadDB
	*PostDB
	*VoteDB
	*NotificationDB
	*ReportDB
	*UserDB
	sess  db.Session
	sqlDB *sql.DB
}

func GetDatabase() (appDb.Database, error) {
	user, pass, host := config.DBAddr()
	sqlDB, err := sql.Open("mysql",
		fmt.Sprintf("%s:%s@tcp(%s)/%s?tls=true&parseTime=true", user, pass, host, config.DBName()))
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(50)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxIdleTime(0)

	sess, err := mysql.New(sqlDB)
	if err != nil {
		return nil, err
	}

	return &MySQLDB{
		ThreadDB:       getThreadDB(sess),
		PostDB:         getPostDB(sess),
		VoteDB:         getVoteDB(sess),
		NotificationDB: getNotificationDB(sess),
		ReportDB:       getReportDB(sess),
		UserDB:         getUserDB(sess),
		sess:           sess,
		sqlDB:          sqlDB,
	}, nil
}

func (mdb *MySQLDB) Close() error {
	return mdb.sess.Close()
}
