package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/classroom"
	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/quiz"
	"github.com/trezcool/darasa/core/search"
	"github.com/trezcool/darasa/core/user"
	aisvc "github.com/trezcool/darasa/services/ai"
	docconvsvc "github.com/trezcool/darasa/services/docconv"
	emailsvc "github.com/trezcool/darasa/services/email"
	logsvc "github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/storage/kv"
	"github.com/trezcool/darasa/storage/kvrepos"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	storeLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "STORE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	storeLogger.Enable(!conf.Debug)

	// set up storage
	store, err := openStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	defer func() {
		if err = store.Close(); err != nil {
			storeLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	genSvc := aisvc.NewGeminiService(conf)
	extractor := docconvsvc.NewTikaService(conf)

	roomSvc := classroom.NewService(kvrepos.NewClassroomRepository(store, storeLogger))
	usrSvc := user.NewService(kvrepos.NewUserRepository(store, storeLogger), roomSvc, mailSvc, conf)
	quizSvc := quiz.NewService(kvrepos.NewQuizRepository(store, storeLogger), genSvc, logger)
	contentSvc := content.NewService(kvrepos.NewContentRepository(store, storeLogger), genSvc, extractor, logger)
	attendanceSvc := attendance.NewService(kvrepos.NewAttendanceRepository(store, storeLogger))
	searchSvc := search.NewService(genSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugAddr, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			UserSvc:       usrSvc,
			RoomSvc:       roomSvc,
			QuizSvc:       quizSvc,
			ContentSvc:    contentSvc,
			AttendanceSvc: attendanceSvc,
			SearchSvc:     searchSvc,
			Validate:      validate,
			Translator:    translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
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

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
