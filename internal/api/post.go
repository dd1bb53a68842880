package api

import (
	"context"
	"errors"

	"github.com/svera/snapgram/internal/backend"
	"github.com/svera/snapgram/internal/result"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Maximum number of profiles fetched at once while resolving post creators
const creatorsConcurrency = 4

// CreatePost uploads the image, then stores the post document pointing to it.
// The uploaded image is deleted if any later step fails.
func (s *Service) CreatePost(ctx context.Context, post NewPost) (Post, error) {
	uploaded, err := s.UploadFile(ctx, post.File)
	if err != nil {
		return Post{}, s.fail(opCreatePost, err)
	}

	fileURL, err := s.GetFilePreview(uploaded.ID)
	if err != nil {
		s.discardFile(ctx, uploaded.ID)
		return Post{}, s.fail(opCreatePost, err)
	}

	doc, err := s.client.Databases.CreateDocument(ctx, s.config.DatabaseID, s.config.PostCollectionID, backend.IDUnique, postAttributes{
		Creator:  post.UserID,
		Caption:  post.Caption,
		ImageURL: fileURL,
		ImageID:  uploaded.ID,
		Location: post.Location,
		Tags:     ParseTags(post.Tags),
		Likes:    []string{},
	})
	if err != nil {
		s.discardFile(ctx, uploaded.ID)
		return Post{}, s.fail(opCreatePost, err, zap.String("userId", post.UserID))
	}

	newPost, err := postFromDocument(doc)
	if err != nil {
		return Post{}, s.failWith(opCreatePost, ReasonInvalid, err)
	}
	return newPost, nil
}

func (s *Service) GetPostByID(ctx context.Context, postID string) (Post, error) {
	if postID == "" {
		return Post{}, s.failWith(opGetPostByID, ReasonInvalid, errors.New("post ID is required"))
	}

	doc, err := s.client.Databases.GetDocument(ctx, s.config.DatabaseID, s.config.PostCollectionID, postID)
	if err != nil {
		return Post{}, s.fail(opGetPostByID, err, zap.String("postId", postID))
	}

	post, err := postFromDocument(doc)
	if err != nil {
		return Post{}, s.failWith(opGetPostByID, ReasonInvalid, err)
	}
	posts := []Post{post}
	s.resolveCreators(ctx, posts)
	return posts[0], nil
}

// UpdatePost stores the new post attributes, uploading a replacement image
// first when one is given. A replacement is deleted if the update fails, and
// the image it replaces is deleted once the update succeeds.
func (s *Service) UpdatePost(ctx context.Context, post UpdatePost) (Post, error) {
	hasFileToUpdate := post.File != nil
	image := struct{ url, id string }{post.ImageURL, post.ImageID}

	if hasFileToUpdate {
		uploaded, err := s.UploadFile(ctx, *post.File)
		if err != nil {
			return Post{}, s.fail(opUpdatePost, err)
		}

		fileURL, err := s.GetFilePreview(uploaded.ID)
		if err != nil {
			s.discardFile(ctx, uploaded.ID)
			return Post{}, s.fail(opUpdatePost, err)
		}
		image.url, image.id = fileURL, uploaded.ID
	}

	doc, err := s.client.Databases.UpdateDocument(ctx, s.config.DatabaseID, s.config.PostCollectionID, post.PostID, postChanges{
		Caption:  post.Caption,
		ImageURL: image.url,
		ImageID:  image.id,
		Location: post.Location,
		Tags:     ParseTags(post.Tags),
	})
	if err != nil {
		if hasFileToUpdate {
			s.discardFile(ctx, image.id)
		}
		return Post{}, s.fail(opUpdatePost, err, zap.String("postId", post.PostID))
	}

	if hasFileToUpdate && post.ImageID != "" {
		s.discardFile(ctx, post.ImageID)
	}

	updated, err := postFromDocument(doc)
	if err != nil {
		return Post{}, s.failWith(opUpdatePost, ReasonInvalid, err)
	}
	return updated, nil
}

// DeletePost removes the post document and then its image. Once the document
// is gone the post is reported deleted even if the image could not be removed.
func (s *Service) DeletePost(ctx context.Context, postID, imageID string) error {
	if postID == "" || imageID == "" {
		return s.failWith(opDeletePost, ReasonInvalid, errors.New("post and image IDs are required"))
	}

	if err := s.client.Databases.DeleteDocument(ctx, s.config.DatabaseID, s.config.PostCollectionID, postID); err != nil {
		return s.fail(opDeletePost, err, zap.String("postId", postID))
	}

	s.discardFile(ctx, imageID)
	return nil
}

// LikePost replaces the list of users that liked the post
func (s *Service) LikePost(ctx context.Context, postID string, likes []string) (Post, error) {
	if likes == nil {
		likes = []string{}
	}

	doc, err := s.client.Databases.UpdateDocument(ctx, s.config.DatabaseID, s.config.PostCollectionID, postID, likesChange{Likes: likes})
	if err != nil {
		return Post{}, s.fail(opLikePost, err, zap.String("postId", postID))
	}

	updated, err := postFromDocument(doc)
	if err != nil {
		return Post{}, s.failWith(opLikePost, ReasonInvalid, err)
	}
	return updated, nil
}

// GetRecentPosts returns the page of most recently updated posts following cursor.
// An empty cursor asks for the first page.
func (s *Service) GetRecentPosts(ctx context.Context, cursor string) (result.Page[Post], error) {
	return s.listPosts(ctx, opGetRecentPosts, cursor)
}

// GetInfinitePosts feeds the explore grid; it pages exactly like GetRecentPosts
func (s *Service) GetInfinitePosts(ctx context.Context, cursor string) (result.Page[Post], error) {
	return s.listPosts(ctx, opGetInfinitePosts, cursor)
}

func (s *Service) listPosts(ctx context.Context, op, cursor string) (result.Page[Post], error) {
	queries := []backend.Query{backend.OrderDesc(backend.AttrUpdatedAt), backend.Limit(PostsPerPage)}
	if cursor != "" {
		queries = append(queries, backend.CursorAfter(cursor))
	}

	list, err := s.client.Databases.ListDocuments(ctx, s.config.DatabaseID, s.config.PostCollectionID, queries...)
	if err != nil {
		return result.Page[Post]{}, s.fail(op, err, zap.String("cursor", cursor))
	}

	posts, err := s.decodePosts(list)
	if err != nil {
		return result.Page[Post]{}, s.failWith(op, ReasonInvalid, err)
	}
	s.resolveCreators(ctx, posts)

	next := cursor
	if len(posts) > 0 {
		next = posts[len(posts)-1].ID
	}
	return result.NewPage(posts, next), nil
}

// SearchPosts returns, in a single batch, the posts whose caption matches term
func (s *Service) SearchPosts(ctx context.Context, term string) ([]Post, error) {
	if term == "" {
		return nil, s.failWith(opSearchPosts, ReasonInvalid, errors.New("empty search term"))
	}

	list, err := s.client.Databases.ListDocuments(ctx, s.config.DatabaseID, s.config.PostCollectionID,
		backend.Search("caption", term),
	)
	if err != nil {
		return nil, s.fail(opSearchPosts, err, zap.String("term", term))
	}

	posts, err := s.decodePosts(list)
	if err != nil {
		return nil, s.failWith(opSearchPosts, ReasonInvalid, err)
	}
	s.resolveCreators(ctx, posts)
	return posts, nil
}

func (s *Service) decodePosts(list backend.DocumentList) ([]Post, error) {
	posts := make([]Post, 0, len(list.Documents))
	for _, doc := range list.Documents {
		post, err := postFromDocument(doc)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// resolveCreators loads the profile of every distinct creator in posts.
// Profiles that cannot be loaded leave Creator nil.
func (s *Service) resolveCreators(ctx context.Context, posts []Post) {
	creators := map[string]*User{}
	for _, post := range posts {
		if post.CreatorID != "" {
			creators[post.CreatorID] = nil
		}
	}
	if len(creators) == 0 {
		return
	}

	ids := make([]string, 0, len(creators))
	for id := range creators {
		ids = append(ids, id)
	}
	profiles := make([]*User, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(creatorsConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			user, err := s.GetUserByID(gctx, id)
			if err == nil {
				profiles[i] = &user
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, id := range ids {
		creators[id] = profiles[i]
	}
	for i := range posts {
		posts[i].Creator = creators[posts[i].CreatorID]
	}
}
