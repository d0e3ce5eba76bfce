// mongodb.go - Optional MongoDB master-data source for the employee roster
// and the reference school list. Spreadsheet uploads work without it.

package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eduparser/edu_parser_gemini/configs"
	"github.com/eduparser/edu_parser_gemini/internal/records"
)

var mongoClient *mongo.Client
var mongoDB *mongo.Database

// InitMongoDB initializes the MongoDB connection
func InitMongoDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(configs.MONGO_URI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	mongoClient = client
	mongoDB = client.Database(configs.MONGO_DB_NAME)

	log.Println("Connected to MongoDB")
	return nil
}

// CloseMongoDB closes the MongoDB connection
func CloseMongoDB() {
	if mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
		log.Println("MongoDB connection closed")
	}
}

// Available reports whether a master-data connection is configured.
func Available() bool {
	return mongoDB != nil
}

// employeeDoc is the roster document shape in the "employees" collection.
type employeeDoc struct {
	CNIC           string `bson:"cnic"`
	EmployeeNumber string `bson:"employee_number"`
	FullName       string `bson:"full_name"`
}

// GetEmployeeRoster loads the full employee roster in insertion order.
// Insertion order matters: the merge pipeline's keep-first deduplication
// depends on it.
func GetEmployeeRoster(ctx context.Context) ([]records.EmployeeRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := mongoDB.Collection("employees").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query employee roster: %w", err)
	}
	defer cursor.Close(ctx)

	var roster []records.EmployeeRecord
	for cursor.Next(ctx) {
		var doc employeeDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode employee document: %w", err)
		}
		roster = append(roster, records.EmployeeRecord{
			CNIC:           doc.CNIC,
			EmployeeNumber: doc.EmployeeNumber,
			FullName:       doc.FullName,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("employee roster cursor error: %w", err)
	}
	return roster, nil
}

// GetReferenceSchools loads the canonical school list, order and case
// preserved, deduplicated by exact value.
func GetReferenceSchools(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := mongoDB.Collection("schools").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query reference schools: %w", err)
	}
	defer cursor.Close(ctx)

	seen := make(map[string]bool)
	var schools []string
	for cursor.Next(ctx) {
		var doc struct {
			Name string `bson:"name"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode school document: %w", err)
		}
		if doc.Name == "" || seen[doc.Name] {
			continue
		}
		seen[doc.Name] = true
		schools = append(schools, doc.Name)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("reference schools cursor error: %w", err)
	}
	return schools, nil
}
