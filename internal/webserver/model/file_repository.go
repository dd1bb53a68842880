package model

import (
	"errors"
	"log"

	"gorm.io/gorm"
)

type FileRepository struct {
	DB *gorm.DB
}

// Create stores file, returning ErrDuplicated if its uuid is already taken in the bucket
func (r *FileRepository) Create(file *File) error {
	var count int64
	r.DB.Model(&File{}).Where("bucket_id = ? AND uuid = ?", file.BucketID, file.Uuid).Count(&count)
	if count > 0 {
		return ErrDuplicated
	}
	if result := r.DB.Create(file); result.Error != nil {
		log.Printf("error creating file: %s\n", result.Error)
		return result.Error
	}
	return nil
}

func (r *FileRepository) Find(bucketID, uuid string) (File, error) {
	file := File{}
	result := r.DB.Where("bucket_id = ? AND uuid = ?", bucketID, uuid).Take(&file)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		log.Printf("error retrieving file: %s\n", result.Error)
	}
	return file, result.Error
}

// Delete removes the file record, returning gorm.ErrRecordNotFound if there is none
func (r *FileRepository) Delete(bucketID, uuid string) error {
	result := r.DB.Where("bucket_id = ? AND uuid = ?", bucketID, uuid).Delete(&File{})
	if result.Error != nil {
		log.Printf("error deleting file: %s\n", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
