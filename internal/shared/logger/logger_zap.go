// Package logger содержит общий логгер для server и taskctl.
//
// Пакет предоставляет Zap-логгер, который пишет в stdout и (опционально) в файл
// с ротацией (lumberjack), и удобный метод для логирования HTTP-запросов.
package logger

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// HTTPLogger представляет обёртку над zap.Logger для логирования HTTP-событий.
//
// Встраивание *zap.Logger позволяет использовать все методы zap напрямую.
type HTTPLogger struct {
	*zap.Logger
}

// Options — настройки логгера. Заполняются из секции log конфига сервера.
type Options struct {
	Level  string // debug|info|warn|error
	Format string // json|console
	// File — путь к файлу логов; пусто — пишем только в stdout.
	File string
	// Sampling включает сэмплирование одинаковых сообщений (zapcore sampler).
	Sampling   bool
	Initial    int
	Thereafter int
}

// New создаёт zap-логгер по переданным настройкам.
//
// Для файла включена ротация (MaxSize/MaxBackups/MaxAge) и сжатие архивов.
// Формат времени: "HH:MM:SS DD.MM.YYYY".
func New(opts Options) (*HTTPLogger, error) {
	level, err := zapcore.ParseLevel(strings.TrimSpace(opts.Level))
	if err != nil || opts.Level == "" {
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = customTimeEncoder

	var encoder zapcore.Encoder
	if strings.EqualFold(opts.Format, "console") {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, err
		}
		// lumberjack отвечает за ротацию файлов
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100, // MB
			MaxBackups: 10,
			MaxAge:     30, // дней
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(encoder, writer, level))
	}

	core := zapcore.NewTee(cores...)
	if opts.Sampling && opts.Initial > 0 {
		core = zapcore.NewSamplerWithOptions(core, time.Second, opts.Initial, opts.Thereafter)
	}

	return &HTTPLogger{Logger: zap.New(core, zap.AddCaller())}, nil
}

// Nop возвращает логгер, который ничего не пишет. Удобно в тестах.
func Nop() *HTTPLogger {
	return &HTTPLogger{Logger: zap.NewNop()}
}

// LogRequest записывает структурированный лог об HTTP-запросе.
//
// method и uri — параметры запроса,
// status — HTTP-статус ответа,
// responseSize — размер ответа в байтах,
// duration — длительность обработки запроса в миллисекундах.
func (logger *HTTPLogger) LogRequest(method, uri, requestID string, status, responseSize int, duration float64) {
	logger.Info("HTTP request",
		zap.String("method", method),
		zap.String("uri", uri),
		zap.String("request_id", requestID),
		zap.Int("status", status),
		zap.Int("response_size", responseSize),
		zap.Float64("duration_ms", duration),
	)
}

// customTimeEncoder форматирует время для логов в виде "HH:MM:SS DD.MM.YYYY".
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05 02.01.2006"))
}
