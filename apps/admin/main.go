package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/classroom"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	"github.com/trezcool/darasa/storage/kv"
	"github.com/trezcool/darasa/storage/kvrepos"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	// set up storage
	store, err := openStore(conf)
	errAndDie(err)
	defer store.Close()

	cliLogger := cliLogger{std: logger}
	usrRepo := kvrepos.NewUserRepository(store, cliLogger)
	roomRepo := kvrepos.NewClassroomRepository(store, cliLogger)
	roomSvc := classroom.NewService(roomRepo)

	// start CLI
	cli := commandLine{
		conf:    conf,
		usrRepo: usrRepo,
		usrSvc:  user.NewService(usrRepo, roomSvc, emailsvc.NewConsoleService(conf), conf),
		roomSvc: roomSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func openStore(conf *core.Config) (kv.Store, error) {
	switch conf.Storage.Engine {
	case "memory":
		return kv.NewMemStore(), nil
	case "postgres":
		return kv.OpenPostgresStore(conf)
	default:
		return kv.OpenBoltStore(filepath.Join(conf.WorkDir, conf.Storage.BoltPath))
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

// cliLogger adapts the std logger to core.Logger for the repositories.
type cliLogger struct {
	std *log.Logger
}

var _ core.Logger = cliLogger{}

func (l cliLogger) Enable(bool)                           {}
func (l cliLogger) Debug(msg string, args ...interface{}) { l.std.Println(msg) }
func (l cliLogger) Info(msg string, args ...interface{})  { l.std.Println(msg) }
func (l cliLogger) Warn(msg string, args ...interface{})  { l.std.Println(msg) }
func (l cliLogger) Error(msg string, args ...interface{}) { l.std.Println(msg) }
func (l cliLogger) Fatal(msg string, args ...interface{}) { l.std.Fatal(msg) }
