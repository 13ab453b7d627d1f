package main

import (
	"context"
	"os"

	"quizbank/internal/app"
	"quizbank/internal/config"
	"quizbank/internal/model"

	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/yaml.v3"
)

var (
	envFile  = kingpin.Flag("env-file", "Dotenv file loaded before reading the environment").Default(".env").String()
	seedFile = kingpin.Flag("file", "YAML file holding the questions to load").Default("cmd/seed/testdata/questions.yaml").String()
	drop     = kingpin.Flag("drop", "Remove every existing question before loading").Default("false").Bool()
)

type fixture struct {
	Questions []model.NewQuestion `yaml:"questions"`
}

func main() {
	kingpin.UsageTemplate(kingpin.CompactUsageTemplate).Version("1.0")
	kingpin.CommandLine.Help = "Load question fixtures into the catalog"
	kingpin.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %s", err.Error())
	}
	log := cfg.Logger()

	questions, err := readFixture(*seedFile)
	if err != nil {
		log.Fatalf("Failed to read %s: %s", *seedFile, err.Error())
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect: %s", err.Error())
	}
	defer a.Close(ctx)

	if *drop {
		if _, err := a.QuestionService.Purge(ctx); err != nil {
			log.Fatalf("Failed to clear catalog: %s", err.Error())
		}
	}

	loaded := 0
	for i := range questions {
		q, err := a.QuestionService.Create(ctx, &questions[i])
		if err != nil {
			log.WithError(err).WithField("index", i).Error("skipping question")
			continue
		}
		log.WithFields(logrus.Fields{"quesID": q.QuesID, "subject": q.Subject, "chapter": q.Chapter}).Debug("question loaded")
		loaded++
	}

	log.WithFields(logrus.Fields{"loaded": loaded, "skipped": len(questions) - loaded}).Info("seeding complete")
}

func readFixture(path string) ([]model.NewQuestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Questions, nil
}
